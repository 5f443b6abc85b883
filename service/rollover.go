package service

import (
	"context"
	"time"

	"bus_ticketing/logger"
	"bus_ticketing/metrics"
	"bus_ticketing/model"

	"github.com/jonboulle/clockwork"
)

// ScheduleRollover completes past daily runs and spawns tomorrow's copy.
type ScheduleRollover struct {
	schedules ScheduleStore
	buses     BusReader
	clock     clockwork.Clock
	loc       *time.Location
}

func NewScheduleRollover(schedules ScheduleStore, buses BusReader, clock clockwork.Clock, loc *time.Location) *ScheduleRollover {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleRollover{schedules: schedules, buses: buses, clock: clock, loc: loc}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Run performs one sweep. A failing schedule is logged and skipped; the error
// return is reserved for the initial lookup.
func (r *ScheduleRollover) Run(ctx context.Context) (model.RolloverReport, error) {
	started := r.clock.Now()
	today := startOfDay(started, r.loc)
	tomorrow := today.AddDate(0, 0, 1)
	report := model.RolloverReport{NewDate: tomorrow}

	expired, err := r.schedules.FindExpiredActive(ctx, today)
	if err != nil {
		logger.Log.Error("[SCHEDULER] failed to load expired schedules", "error", err)
		return report, err
	}
	report.Found = len(expired)
	if len(expired) == 0 {
		return report, nil
	}
	logger.Log.Info("[SCHEDULER] rolling over expired schedules", "count", len(expired), "newDate", tomorrow.Format("2006-01-02"))

	for i := range expired {
		old := expired[i]
		if err := ctx.Err(); err != nil {
			return report, err
		}

		next := model.Schedule{
			BusId:          old.BusId,
			Route:          old.Route,
			DepartureTime:  old.DepartureTime,
			ArrivalTime:    old.ArrivalTime,
			Duration:       old.Duration,
			Date:           tomorrow,
			Price:          old.Price,
			PricePerSeat:   old.PricePerSeat,
			AvailableSeats: r.seatsFor(ctx, old),
			Status:         model.ScheduleActive,
		}

		spawned, err := r.schedules.CompleteAndSpawn(ctx, old.ID, &next)
		if err != nil {
			report.Failed++
			metrics.ScheduleRollover.WithLabelValues("failed").Inc()
			logger.Log.Error("[SCHEDULER] failed to roll over schedule", "scheduleId", old.ID, "error", err)
			continue
		}
		if !spawned {
			report.Skipped++
			metrics.ScheduleRollover.WithLabelValues("skipped").Inc()
			continue
		}
		report.Completed++
		report.Created++
		metrics.ScheduleRollover.WithLabelValues("rolled").Inc()
		logger.Log.Debug("[SCHEDULER] schedule rolled over", "scheduleId", old.ID, "newScheduleId", next.ID)
	}

	metrics.RolloverDuration.Observe(r.clock.Since(started).Seconds())
	logger.Log.Info("[SCHEDULER] rollover finished",
		"found", report.Found, "created", report.Created, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// seatsFor resets seats to the bus capacity, keeping the previous count when
// the bus cannot be read.
func (r *ScheduleRollover) seatsFor(ctx context.Context, s model.Schedule) int {
	bus, err := r.buses.FindByID(ctx, s.BusId)
	if err != nil {
		logger.Log.Warn("[SCHEDULER] bus lookup failed, keeping seat count", "scheduleId", s.ID, "busId", s.BusId, "error", err)
		return s.AvailableSeats
	}
	if bus == nil {
		metrics.RolloverMissingBus.Inc()
		logger.Log.Warn("[SCHEDULER] schedule references a missing bus", "scheduleId", s.ID, "busId", s.BusId)
		return s.AvailableSeats
	}
	return bus.Capacity
}
