package service

import (
	"context"
	"testing"
	"time"

	"bus_ticketing/apperror"
	"bus_ticketing/model"

	"github.com/jonboulle/clockwork"
)

func newBookingService(tickets *fakeTickets) (*BookingService, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC))
	return NewBookingService(tickets, fakeBuses{3: {DTO: model.DTO{ID: 3}, Capacity: 40}}, clock), clock
}

func TestCreateBooking(t *testing.T) {
	tickets := newFakeTickets()
	svc, clock := newBookingService(tickets)
	in := model.CreateTicketInput{
		BusId:            3,
		SeatNumber:       "A1",
		DepartureStation: "Vientiane",
		ArrivalStation:   "Vang Vieng",
		DepartureTime:    clock.Now().Add(24 * time.Hour),
		Price:            120000,
	}
	got, err := svc.Create(context.Background(), owner, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID == 0 || got.UserId != owner.UserID || got.Status != model.TicketBooked || got.PaymentStatus != model.PaymentPending {
		t.Fatalf("unexpected booking %+v", got)
	}
	if got.SeatNumber != "A1" || !got.BookingDate.Equal(clock.Now()) {
		t.Fatalf("input not copied: %+v", got)
	}

	in.BusId = 4
	if _, err := svc.Create(context.Background(), owner, in); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound for missing bus, got %v", err)
	}
}

func TestCancelBooking(t *testing.T) {
	tickets := newFakeTickets(
		model.Ticket{DTO: model.DTO{ID: 1}, UserId: owner.UserID, Status: model.TicketBooked, PaymentStatus: model.PaymentCompleted},
		model.Ticket{DTO: model.DTO{ID: 2}, UserId: owner.UserID, Status: model.TicketCompleted},
	)
	svc, _ := newBookingService(tickets)

	if _, err := svc.Cancel(context.Background(), stranger, 1); !apperror.Is(err, apperror.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	got, err := svc.Cancel(context.Background(), owner, 1)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != model.TicketCancelled || got.PaymentStatus != model.PaymentRefunded {
		t.Fatalf("unexpected cancelled booking %+v", got)
	}
	if _, err := svc.Cancel(context.Background(), owner, 1); !apperror.Is(err, apperror.InvalidState) {
		t.Fatalf("expected InvalidState on second cancel, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), admin, 2); !apperror.Is(err, apperror.InvalidState) {
		t.Fatalf("expected InvalidState for completed booking, got %v", err)
	}
}

func TestUpdateBookingOnlyWhileBooked(t *testing.T) {
	tickets := newFakeTickets(
		model.Ticket{DTO: model.DTO{ID: 1}, UserId: owner.UserID, Status: model.TicketBooked, SeatNumber: "A1"},
		model.Ticket{DTO: model.DTO{ID: 2}, UserId: owner.UserID, Status: model.TicketCancelled},
	)
	svc, _ := newBookingService(tickets)
	seat := "B4"
	got, err := svc.Update(context.Background(), owner, 1, model.UpdateTicketInput{SeatNumber: &seat})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.SeatNumber != "B4" {
		t.Fatalf("seat not updated: %+v", got)
	}
	if _, err := svc.Update(context.Background(), owner, 2, model.UpdateTicketInput{SeatNumber: &seat}); !apperror.Is(err, apperror.InvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
}

func TestExpireDepartedBookings(t *testing.T) {
	past := time.Date(2025, 2, 1, 6, 0, 0, 0, time.UTC)
	tickets := newFakeTickets(
		model.Ticket{DTO: model.DTO{ID: 1}, Status: model.TicketBooked, PaymentStatus: model.PaymentCompleted, DepartureTime: past},
		model.Ticket{DTO: model.DTO{ID: 2}, Status: model.TicketBooked, PaymentStatus: model.PaymentPending, DepartureTime: past},
		model.Ticket{DTO: model.DTO{ID: 3}, Status: model.TicketBooked, DepartureTime: past.Add(48 * time.Hour)},
	)
	svc, _ := newBookingService(tickets)
	completed, expired, err := svc.ExpireDeparted(context.Background())
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if completed != 1 || expired != 1 {
		t.Fatalf("expected 1 completed and 1 expired, got %d %d", completed, expired)
	}
	if tickets.get(3).Status != model.TicketBooked {
		t.Fatalf("future booking must stay booked")
	}
}

func TestByOrderNoOwnership(t *testing.T) {
	tickets := orderTickets("BOOKING_9", 2)
	svc, _ := newBookingService(tickets)
	if _, err := svc.ByOrderNo(context.Background(), stranger, "BOOKING_9"); !apperror.Is(err, apperror.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	got, err := svc.ByOrderNo(context.Background(), owner, "BOOKING_9")
	if err != nil || len(got) != 2 {
		t.Fatalf("expected two bookings, got %d %v", len(got), err)
	}
	if _, err := svc.ByOrderNo(context.Background(), admin, "nope"); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
