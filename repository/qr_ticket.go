package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bus_ticketing/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QRTicketRepository struct {
	Store[model.QRTicket]
}

func NewQRTicketRepository(db *gorm.DB) *QRTicketRepository {
	return &QRTicketRepository{Store: NewStore[model.QRTicket](db)}
}

func (r *QRTicketRepository) FindByTicketID(ctx context.Context, ticketID uint) (*model.QRTicket, error) {
	return r.FindOne(ctx, map[string]any{"ticket_id": ticketID})
}

func (r *QRTicketRepository) FindByData(ctx context.Context, data string) (*model.QRTicket, error) {
	var qr model.QRTicket
	if err := r.DB(ctx).Where("qr_data = ?", data).First(&qr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find qr by data: %w", err)
	}
	return &qr, nil
}

// Upsert inserts the QR ticket or, when one already exists for the same
// ticket, overwrites its payload, image and expiry and reactivates it.
// Concurrent writers converge on a single row through the ticket_id unique key.
func (r *QRTicketRepository) Upsert(ctx context.Context, qr *model.QRTicket) error {
	err := r.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticket_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"qr_data", "qr_image", "expires_at", "is_valid", "status", "updated_at",
		}),
	}).Create(qr).Error
	if err != nil {
		return fmt.Errorf("upsert qr for ticket %d: %w", qr.TicketId, err)
	}
	return nil
}

// MarkExpired flips a QR ticket to expired. The transition is one-way and the
// statement is a no-op for rows already expired or invalidated.
func (r *QRTicketRepository) MarkExpired(ctx context.Context, id uint) (bool, error) {
	res := r.DB(ctx).Model(&model.QRTicket{}).
		Where("id = ? AND status = ?", id, model.QRActive).
		Updates(map[string]any{
			"status":   model.QRExpired,
			"is_valid": false,
		})
	if res.Error != nil {
		return false, fmt.Errorf("expire qr %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// RecordScan counts a successful scan. It only applies while the row is still
// valid and unexpired at now, so a concurrent expiry or invalidation wins.
func (r *QRTicketRepository) RecordScan(ctx context.Context, id, scannedBy uint, now time.Time) (bool, error) {
	res := r.DB(ctx).Model(&model.QRTicket{}).
		Where("id = ? AND is_valid = ? AND expires_at >= ?", id, true, now).
		Updates(map[string]any{
			"verification_count": gorm.Expr("verification_count + ?", 1),
			"scanned_at":         now,
			"scanned_by":         scannedBy,
		})
	if res.Error != nil {
		return false, fmt.Errorf("record scan for qr %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *QRTicketRepository) Invalidate(ctx context.Context, id uint) (bool, error) {
	res := r.DB(ctx).Model(&model.QRTicket{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":   model.QRInvalid,
			"is_valid": false,
		})
	if res.Error != nil {
		return false, fmt.Errorf("invalidate qr %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ExpireStale expires every active QR ticket whose expiry has passed.
func (r *QRTicketRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB(ctx).Model(&model.QRTicket{}).
		Where("status = ? AND expires_at < ?", model.QRActive, now).
		Updates(map[string]any{
			"status":   model.QRExpired,
			"is_valid": false,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("expire stale qr codes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
