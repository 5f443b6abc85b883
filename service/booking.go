package service

import (
	"context"
	"fmt"

	"bus_ticketing/apperror"
	"bus_ticketing/model"
	"bus_ticketing/repository"

	"github.com/jinzhu/copier"
	"github.com/jonboulle/clockwork"
)

type BookingService struct {
	tickets TicketStore
	buses   BusReader
	clock   clockwork.Clock
}

func NewBookingService(tickets TicketStore, buses BusReader, clock clockwork.Clock) *BookingService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BookingService{tickets: tickets, buses: buses, clock: clock}
}

func (s *BookingService) Create(ctx context.Context, p model.Principal, in model.CreateTicketInput) (*model.Ticket, error) {
	bus, err := s.buses.FindByID(ctx, in.BusId)
	if err != nil {
		return nil, err
	}
	if bus == nil {
		return nil, apperror.New(apperror.NotFound, "bus not found")
	}

	var ticket model.Ticket
	if err := copier.Copy(&ticket, &in); err != nil {
		return nil, fmt.Errorf("copy booking input: %w", err)
	}
	ticket.UserId = p.UserID
	ticket.Status = model.TicketBooked
	ticket.PaymentStatus = model.PaymentPending
	ticket.BookingDate = s.clock.Now()

	if err := s.tickets.Create(ctx, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Get loads a booking the principal is allowed to see.
func (s *BookingService) Get(ctx context.Context, p model.Principal, id uint) (*model.Ticket, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperror.New(apperror.NotFound, "booking not found")
	}
	if t.UserId != p.UserID && !p.IsAdmin() {
		return nil, apperror.New(apperror.Forbidden, "not allowed to access this booking")
	}
	return t, nil
}

func (s *BookingService) Mine(ctx context.Context, p model.Principal, page model.Pagination) ([]model.Ticket, int64, error) {
	skip, limit := page.Offset()
	return s.tickets.Find(ctx, repository.Query{
		Filter: map[string]any{"user_id": p.UserID},
		Sort:   "created_at DESC",
		Skip:   skip,
		Limit:  limit,
	})
}

func (s *BookingService) List(ctx context.Context, f model.FilterTicketInput) ([]model.Ticket, int64, error) {
	filter := map[string]any{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.BusId > 0 {
		filter["bus_id"] = f.BusId
	}
	if f.PaymentStatus != "" {
		filter["payment_status"] = f.PaymentStatus
	}
	skip, limit := f.Offset()
	return s.tickets.Find(ctx, repository.Query{Filter: filter, Sort: "created_at DESC", Skip: skip, Limit: limit})
}

func (s *BookingService) Update(ctx context.Context, p model.Principal, id uint, in model.UpdateTicketInput) (*model.Ticket, error) {
	t, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if t.Status != model.TicketBooked {
		return nil, apperror.New(apperror.InvalidState, fmt.Sprintf("cannot update a %s booking", t.Status))
	}

	patch := map[string]any{}
	if in.SeatNumber != nil {
		patch["seat_number"] = *in.SeatNumber
	}
	if in.PassengerName != nil {
		patch["passenger_name"] = *in.PassengerName
	}
	if in.PassengerAge != nil {
		patch["passenger_age"] = *in.PassengerAge
	}
	if in.PassengerGender != nil {
		patch["passenger_gender"] = *in.PassengerGender
	}
	if in.PaymentMethod != nil {
		patch["payment_method"] = *in.PaymentMethod
	}
	if len(patch) == 0 {
		return t, nil
	}
	if _, err := s.tickets.UpdateByID(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.tickets.FindByID(ctx, id)
}

// Cancel moves a booking to cancelled. Paid bookings are marked refunded.
func (s *BookingService) Cancel(ctx context.Context, p model.Principal, id uint) (*model.Ticket, error) {
	t, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case model.TicketCancelled:
		return nil, apperror.New(apperror.InvalidState, "booking is already cancelled")
	case model.TicketCompleted, model.TicketExpired:
		return nil, apperror.New(apperror.InvalidState, fmt.Sprintf("cannot cancel a %s booking", t.Status))
	}

	patch := map[string]any{"status": model.TicketCancelled}
	if t.PaymentStatus == model.PaymentCompleted {
		patch["payment_status"] = model.PaymentRefunded
	}
	if _, err := s.tickets.UpdateByID(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.tickets.FindByID(ctx, id)
}

func (s *BookingService) ByOrderNo(ctx context.Context, p model.Principal, orderNo string) ([]model.Ticket, error) {
	tickets, err := s.tickets.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, apperror.New(apperror.NotFound, "no bookings found for this order")
	}
	if !p.IsAdmin() {
		for _, t := range tickets {
			if t.UserId != p.UserID {
				return nil, apperror.New(apperror.Forbidden, "order belongs to another user")
			}
		}
	}
	return tickets, nil
}

// ExpireDeparted closes bookings whose bus already left.
func (s *BookingService) ExpireDeparted(ctx context.Context) (completed, expired int64, err error) {
	return s.tickets.ExpireDeparted(ctx, s.clock.Now())
}
