package repository

import (
	"context"
	"fmt"
	"time"

	"bus_ticketing/model"

	"gorm.io/gorm"
)

type TicketRepository struct {
	Store[model.Ticket]
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{Store: NewStore[model.Ticket](db)}
}

func (r *TicketRepository) FindByOrderNo(ctx context.Context, orderNo string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := r.DB(ctx).Where("payment_order_no = ?", orderNo).Order("id").Find(&tickets).Error; err != nil {
		return nil, fmt.Errorf("find by order %s: %w", orderNo, err)
	}
	return tickets, nil
}

// StampOrder attaches every listed ticket to a payment order and resets its
// payment status to pending.
func (r *TicketRepository) StampOrder(ctx context.Context, ids []uint, orderNo string) (int64, error) {
	res := r.DB(ctx).Model(&model.Ticket{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"payment_order_no": orderNo,
			"payment_status":   model.PaymentPending,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("stamp order %s: %w", orderNo, res.Error)
	}
	return res.RowsAffected, nil
}

// SettleOrder moves all tickets of an order to the given payment and booking
// status in one statement. Tickets already settled to a different payment
// status are left untouched, so replays and late contradicting callbacks
// cannot rewrite a settled order.
func (r *TicketRepository) SettleOrder(ctx context.Context, orderNo, paymentStatus, status string) (int64, error) {
	res := r.DB(ctx).Model(&model.Ticket{}).
		Where("payment_order_no = ? AND payment_status IN ?", orderNo, []string{model.PaymentPending, paymentStatus}).
		Updates(map[string]any{
			"payment_status": paymentStatus,
			"status":         status,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("settle order %s: %w", orderNo, res.Error)
	}
	return res.RowsAffected, nil
}

// ExpireDeparted closes bookings whose departure is in the past: paid ones
// become completed, the rest expired.
func (r *TicketRepository) ExpireDeparted(ctx context.Context, now time.Time) (completed, expired int64, err error) {
	err = r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Ticket{}).
			Where("status = ? AND departure_time < ? AND payment_status = ?", model.TicketBooked, now, model.PaymentCompleted).
			Update("status", model.TicketCompleted)
		if res.Error != nil {
			return res.Error
		}
		completed = res.RowsAffected

		res = tx.Model(&model.Ticket{}).
			Where("status = ? AND departure_time < ?", model.TicketBooked, now).
			Update("status", model.TicketExpired)
		if res.Error != nil {
			return res.Error
		}
		expired = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("expire departed tickets: %w", err)
	}
	return completed, expired, nil
}

// FindOrphans returns tickets whose bus row no longer exists.
func (r *TicketRepository) FindOrphans(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.DB(ctx).
		Where("NOT EXISTS (SELECT 1 FROM buses WHERE buses.id = tickets.bus_id)").
		Order("id").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("find orphan tickets: %w", err)
	}
	return tickets, nil
}

// BookedSeats returns the seat numbers held by live bookings of a bus,
// optionally narrowed to one schedule.
func (r *TicketRepository) BookedSeats(ctx context.Context, busID uint, scheduleID *uint) ([]string, error) {
	db := r.DB(ctx).Model(&model.Ticket{}).
		Where("bus_id = ? AND status = ?", busID, model.TicketBooked)
	if scheduleID != nil {
		db = db.Where("schedule_id = ?", *scheduleID)
	}
	var seats []string
	if err := db.Order("seat_number").Pluck("seat_number", &seats).Error; err != nil {
		return nil, fmt.Errorf("booked seats for bus %d: %w", busID, err)
	}
	return seats, nil
}
