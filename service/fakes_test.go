package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"bus_ticketing/model"
	"bus_ticketing/repository"
)

type fakeTickets struct {
	mu   sync.Mutex
	rows map[uint]*model.Ticket
	next uint
}

func newFakeTickets(rows ...model.Ticket) *fakeTickets {
	f := &fakeTickets{rows: map[uint]*model.Ticket{}}
	for i := range rows {
		t := rows[i]
		f.rows[t.ID] = &t
		if t.ID > f.next {
			f.next = t.ID
		}
	}
	return f
}

func (f *fakeTickets) get(id uint) model.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[id]
}

func (f *fakeTickets) FindByID(_ context.Context, id uint) (*model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTickets) Find(_ context.Context, q repository.Query) ([]model.Ticket, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.rows {
		if v, ok := q.Filter["user_id"]; ok && t.UserId != v.(uint) {
			continue
		}
		if v, ok := q.Filter["status"]; ok && t.Status != v.(string) {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeTickets) Create(_ context.Context, t *model.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	t.ID = f.next
	cp := *t
	f.rows[t.ID] = &cp
	return nil
}

func (f *fakeTickets) UpdateByID(_ context.Context, id uint, patch map[string]any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	for k, v := range patch {
		switch k {
		case "status":
			t.Status = v.(string)
		case "payment_status":
			t.PaymentStatus = v.(string)
		case "seat_number":
			t.SeatNumber = v.(string)
		case "passenger_name":
			t.PassengerName = v.(string)
		}
	}
	return true, nil
}

func (f *fakeTickets) FindByOrderNo(_ context.Context, orderNo string) ([]model.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Ticket
	for _, t := range f.rows {
		if t.PaymentOrderNo != nil && *t.PaymentOrderNo == orderNo {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTickets) StampOrder(_ context.Context, ids []uint, orderNo string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, id := range ids {
		if t, ok := f.rows[id]; ok {
			o := orderNo
			t.PaymentOrderNo = &o
			t.PaymentStatus = model.PaymentPending
			n++
		}
	}
	return n, nil
}

func (f *fakeTickets) SettleOrder(_ context.Context, orderNo, paymentStatus, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.rows {
		if t.PaymentOrderNo == nil || *t.PaymentOrderNo != orderNo {
			continue
		}
		if t.PaymentStatus != model.PaymentPending && t.PaymentStatus != paymentStatus {
			continue
		}
		t.PaymentStatus = paymentStatus
		t.Status = status
		n++
	}
	return n, nil
}

func (f *fakeTickets) ExpireDeparted(_ context.Context, now time.Time) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var completed, expired int64
	for _, t := range f.rows {
		if t.Status != model.TicketBooked || !t.DepartureTime.Before(now) {
			continue
		}
		if t.PaymentStatus == model.PaymentCompleted {
			t.Status = model.TicketCompleted
			completed++
		} else {
			t.Status = model.TicketExpired
			expired++
		}
	}
	return completed, expired, nil
}

func (f *fakeTickets) FindOrphans(context.Context) ([]model.Ticket, error) { return nil, nil }

type fakeQRs struct {
	mu     sync.Mutex
	rows   map[uint]*model.QRTicket
	next   uint
	writes int
}

func newFakeQRs() *fakeQRs {
	return &fakeQRs{rows: map[uint]*model.QRTicket{}}
}

func (f *fakeQRs) FindByID(_ context.Context, id uint) (*model.QRTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQRs) Find(_ context.Context, q repository.Query) ([]model.QRTicket, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.QRTicket
	for _, r := range f.rows {
		if v, ok := q.Filter["status"]; ok && r.Status != v.(string) {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeQRs) FindByTicketID(_ context.Context, ticketID uint) (*model.QRTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.rows {
		if q.TicketId == ticketID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeQRs) FindByData(_ context.Context, data string) (*model.QRTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range f.rows {
		if q.QRData == data {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeQRs) Upsert(_ context.Context, qr *model.QRTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	for _, q := range f.rows {
		if q.TicketId == qr.TicketId {
			q.QRData, q.QRImage, q.ExpiresAt = qr.QRData, qr.QRImage, qr.ExpiresAt
			q.IsValid, q.Status = true, model.QRActive
			qr.ID = q.ID
			return nil
		}
	}
	f.next++
	qr.ID = f.next
	cp := *qr
	f.rows[cp.ID] = &cp
	return nil
}

func (f *fakeQRs) MarkExpired(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[id]
	if !ok || q.Status != model.QRActive {
		return false, nil
	}
	f.writes++
	q.Status, q.IsValid = model.QRExpired, false
	return true, nil
}

func (f *fakeQRs) RecordScan(_ context.Context, id, scannedBy uint, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[id]
	if !ok || !q.IsValid || q.ExpiresAt.Before(now) {
		return false, nil
	}
	f.writes++
	q.VerificationCount++
	at, by := now, scannedBy
	q.ScannedAt, q.ScannedBy = &at, &by
	return true, nil
}

func (f *fakeQRs) Invalidate(_ context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	f.writes++
	q.Status, q.IsValid = model.QRInvalid, false
	return true, nil
}

func (f *fakeQRs) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, q := range f.rows {
		if q.Status == model.QRActive && q.ExpiresAt.Before(now) {
			q.Status, q.IsValid = model.QRExpired, false
			n++
		}
	}
	return n, nil
}

type fakeSchedules struct {
	mu      sync.Mutex
	rows    map[uint]*model.Schedule
	next    uint
	failFor map[uint]bool
}

func newFakeSchedules(rows ...model.Schedule) *fakeSchedules {
	f := &fakeSchedules{rows: map[uint]*model.Schedule{}, failFor: map[uint]bool{}}
	for i := range rows {
		s := rows[i]
		f.rows[s.ID] = &s
		if s.ID > f.next {
			f.next = s.ID
		}
	}
	return f
}

func (f *fakeSchedules) all() []model.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.rows {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeSchedules) FindExpiredActive(_ context.Context, before time.Time) ([]model.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Schedule
	for _, s := range f.rows {
		if s.Status == model.ScheduleActive && s.Date.Before(before) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSchedules) CompleteAndSpawn(_ context.Context, id uint, next *model.Schedule) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[id] {
		return false, errors.New("connection reset")
	}
	s, ok := f.rows[id]
	if !ok || s.Status != model.ScheduleActive {
		return false, nil
	}
	s.Status = model.ScheduleCompleted
	f.next++
	next.ID = f.next
	cp := *next
	f.rows[cp.ID] = &cp
	return true, nil
}

func (f *fakeSchedules) FindOrphans(context.Context) ([]model.Schedule, error) { return nil, nil }

type fakeBuses map[uint]model.Bus

func (f fakeBuses) FindByID(_ context.Context, id uint) (*model.Bus, error) {
	b, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}
