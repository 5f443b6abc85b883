package service

import (
	"context"
	"time"

	"bus_ticketing/model"
	"bus_ticketing/repository"
)

// TicketStore is the ticket persistence the engines depend on.
type TicketStore interface {
	FindByID(ctx context.Context, id uint) (*model.Ticket, error)
	Find(ctx context.Context, q repository.Query) ([]model.Ticket, int64, error)
	Create(ctx context.Context, t *model.Ticket) error
	UpdateByID(ctx context.Context, id uint, patch map[string]any) (bool, error)
	FindByOrderNo(ctx context.Context, orderNo string) ([]model.Ticket, error)
	StampOrder(ctx context.Context, ids []uint, orderNo string) (int64, error)
	SettleOrder(ctx context.Context, orderNo, paymentStatus, status string) (int64, error)
	ExpireDeparted(ctx context.Context, now time.Time) (int64, int64, error)
	FindOrphans(ctx context.Context) ([]model.Ticket, error)
}

type QRStore interface {
	FindByID(ctx context.Context, id uint) (*model.QRTicket, error)
	Find(ctx context.Context, q repository.Query) ([]model.QRTicket, int64, error)
	FindByTicketID(ctx context.Context, ticketID uint) (*model.QRTicket, error)
	FindByData(ctx context.Context, data string) (*model.QRTicket, error)
	Upsert(ctx context.Context, qr *model.QRTicket) error
	MarkExpired(ctx context.Context, id uint) (bool, error)
	RecordScan(ctx context.Context, id, scannedBy uint, now time.Time) (bool, error)
	Invalidate(ctx context.Context, id uint) (bool, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type ScheduleStore interface {
	FindExpiredActive(ctx context.Context, before time.Time) ([]model.Schedule, error)
	CompleteAndSpawn(ctx context.Context, id uint, next *model.Schedule) (bool, error)
	FindOrphans(ctx context.Context) ([]model.Schedule, error)
}

type BusReader interface {
	FindByID(ctx context.Context, id uint) (*model.Bus, error)
}

// Ensure the gorm repositories satisfy the engine contracts.
var (
	_ TicketStore   = (*repository.TicketRepository)(nil)
	_ QRStore       = (*repository.QRTicketRepository)(nil)
	_ ScheduleStore = (*repository.ScheduleRepository)(nil)
	_ BusReader     = (*repository.BusRepository)(nil)
)
