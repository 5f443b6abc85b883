package service

import (
	"context"

	"bus_ticketing/logger"
	"bus_ticketing/metrics"
	"bus_ticketing/model"
)

type IntegrityService struct {
	schedules ScheduleStore
	tickets   TicketStore
}

func NewIntegrityService(schedules ScheduleStore, tickets TicketStore) *IntegrityService {
	return &IntegrityService{schedules: schedules, tickets: tickets}
}

// Orphans lists schedules and tickets whose bus was deleted. Nothing is
// repaired here.
func (s *IntegrityService) Orphans(ctx context.Context) (*model.OrphanReport, error) {
	schedules, err := s.schedules.FindOrphans(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.FindOrphans(ctx)
	if err != nil {
		return nil, err
	}
	metrics.OrphanReferences.WithLabelValues("schedule").Set(float64(len(schedules)))
	metrics.OrphanReferences.WithLabelValues("ticket").Set(float64(len(tickets)))
	if len(schedules) > 0 || len(tickets) > 0 {
		logger.Log.Warn("orphaned bus references found", "schedules", len(schedules), "tickets", len(tickets))
	}
	if schedules == nil {
		schedules = []model.Schedule{}
	}
	if tickets == nil {
		tickets = []model.Ticket{}
	}
	return &model.OrphanReport{Schedules: schedules, Tickets: tickets}, nil
}
