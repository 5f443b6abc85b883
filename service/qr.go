package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"bus_ticketing/apperror"
	"bus_ticketing/logger"
	"bus_ticketing/metrics"
	"bus_ticketing/model"
	"bus_ticketing/repository"
	"bus_ticketing/utils"

	"github.com/jonboulle/clockwork"
)

const (
	defaultQRWindow    = 24 * time.Hour
	defaultQRImageSize = 300
)

type QRService struct {
	tickets   TicketStore
	codes     QRStore
	clock     clockwork.Clock
	window    time.Duration
	imageSize int
}

func NewQRService(tickets TicketStore, codes QRStore, clock clockwork.Clock, window time.Duration, imageSize int) *QRService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = defaultQRWindow
	}
	if imageSize <= 0 {
		imageSize = defaultQRImageSize
	}
	return &QRService{tickets: tickets, codes: codes, clock: clock, window: window, imageSize: imageSize}
}

// Issue returns the boarding QR of a ticket, generating it when there is no
// valid unexpired code yet. created is false when the current code was
// returned unchanged.
func (s *QRService) Issue(ctx context.Context, p model.Principal, ticketID uint) (qr *model.QRTicket, created bool, err error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, false, err
	}
	if ticket == nil {
		return nil, false, apperror.New(apperror.NotFound, "ticket not found")
	}
	if ticket.UserId != p.UserID && !p.IsAdmin() {
		return nil, false, apperror.New(apperror.Forbidden, "not allowed to access this ticket")
	}
	if ticket.Status == model.TicketCancelled || ticket.Status == model.TicketExpired {
		return nil, false, apperror.New(apperror.InvalidState, fmt.Sprintf("cannot issue QR for a %s ticket", ticket.Status))
	}

	now := s.clock.Now()
	existing, err := s.codes.FindByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil && existing.IsValid && existing.Status == model.QRActive && !existing.IsExpired(now) {
		return existing, false, nil
	}

	data, err := buildPayload(ticket, now)
	if err != nil {
		return nil, false, err
	}
	image, err := utils.QRDataURL(data, s.imageSize)
	if err != nil {
		return nil, false, fmt.Errorf("render qr for ticket %d: %w", ticket.ID, err)
	}

	expiresAt := now.Add(s.window)
	if ticket.DepartureTime.Before(expiresAt) {
		expiresAt = ticket.DepartureTime
	}

	qr = &model.QRTicket{
		TicketId:  ticket.ID,
		QRData:    data,
		QRImage:   image,
		IsValid:   true,
		ExpiresAt: expiresAt,
		Status:    model.QRActive,
	}
	if err := s.codes.Upsert(ctx, qr); err != nil {
		return nil, false, err
	}
	metrics.QRIssued.Inc()

	stored, err := s.codes.FindByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return qr, true, nil
	}
	return stored, true, nil
}

func buildPayload(t *model.Ticket, now time.Time) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("qr nonce: %w", err)
	}
	ts := now.UnixMilli()
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d-%d-%d-%d-%s", t.ID, t.UserId, t.BusId, ts, hex.EncodeToString(nonce))))

	body, err := json.Marshal(model.QRPayload{
		TicketID:  t.ID,
		UserID:    t.UserId,
		BusID:     t.BusId,
		Timestamp: ts,
		Hash:      hex.EncodeToString(sum[:]),
	})
	if err != nil {
		return "", fmt.Errorf("encode qr payload: %w", err)
	}
	return string(body), nil
}

// ParsePayload decodes a scanned QR string. Unknown fields, missing fields and
// a hash that is not a hex sha256 digest are all rejected.
func ParsePayload(raw string) (*model.QRPayload, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	var p model.QRPayload
	if err := dec.Decode(&p); err != nil {
		return nil, apperror.Wrap(apperror.InvalidFormat, "invalid QR code format", err)
	}
	if dec.More() {
		return nil, apperror.New(apperror.InvalidFormat, "invalid QR code format")
	}
	if p.TicketID == 0 || p.UserID == 0 || p.BusID == 0 || p.Timestamp <= 0 {
		return nil, apperror.New(apperror.InvalidFormat, "QR code is missing required fields")
	}
	if len(p.Hash) != sha256.Size*2 {
		return nil, apperror.New(apperror.InvalidFormat, "QR code hash is malformed")
	}
	if _, err := hex.DecodeString(p.Hash); err != nil {
		return nil, apperror.Wrap(apperror.InvalidFormat, "QR code hash is malformed", err)
	}
	return &p, nil
}

// Verify checks a scanned payload and records the scan. Codes can be scanned
// any number of times while they stay valid; each success bumps the counter.
func (s *QRService) Verify(ctx context.Context, p model.Principal, raw string) (*model.VerifiedQR, error) {
	if _, err := ParsePayload(raw); err != nil {
		metrics.QRVerifications.WithLabelValues("invalid_format").Inc()
		return nil, err
	}

	qr, err := s.codes.FindByData(ctx, raw)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		metrics.QRVerifications.WithLabelValues("not_found").Inc()
		return nil, apperror.New(apperror.NotFound, "QR code not found")
	}

	now := s.clock.Now()
	if err := s.checkScannable(ctx, qr, now); err != nil {
		return nil, err
	}

	ok, err := s.codes.RecordScan(ctx, qr.ID, p.UserID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with expiry or invalidation; classify from the current row.
		current, err := s.codes.FindByID(ctx, qr.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, apperror.New(apperror.NotFound, "QR code not found")
		}
		if err := s.checkScannable(ctx, current, now); err != nil {
			return nil, err
		}
		return nil, apperror.New(apperror.InvalidState, "QR code could not be verified")
	}

	updated, err := s.codes.FindByID(ctx, qr.ID)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.FindByID(ctx, qr.TicketId)
	if err != nil {
		return nil, err
	}
	metrics.QRVerifications.WithLabelValues("success").Inc()
	return &model.VerifiedQR{QRCode: updated, Ticket: ticket}, nil
}

func (s *QRService) checkScannable(ctx context.Context, qr *model.QRTicket, now time.Time) error {
	if !qr.IsValid {
		metrics.QRVerifications.WithLabelValues("invalidated").Inc()
		return apperror.New(apperror.Invalidated, "QR code is no longer valid")
	}
	if qr.IsExpired(now) {
		if _, err := s.codes.MarkExpired(ctx, qr.ID); err != nil {
			return err
		}
		metrics.QRVerifications.WithLabelValues("expired").Inc()
		return apperror.New(apperror.Expired, "QR code has expired")
	}
	return nil
}

func (s *QRService) GetByTicket(ctx context.Context, p model.Principal, ticketID uint) (*model.QRTicket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, apperror.New(apperror.NotFound, "ticket not found")
	}
	if ticket.UserId != p.UserID && !p.IsAdmin() {
		return nil, apperror.New(apperror.Forbidden, "not allowed to access this ticket")
	}
	qr, err := s.codes.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if qr == nil {
		return nil, apperror.New(apperror.NotFound, "QR code not found for this ticket")
	}
	return qr, nil
}

// Invalidate permanently disables a QR code.
func (s *QRService) Invalidate(ctx context.Context, id uint) (*model.QRTicket, error) {
	ok, err := s.codes.Invalidate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.New(apperror.NotFound, "QR code not found")
	}
	return s.codes.FindByID(ctx, id)
}

func (s *QRService) List(ctx context.Context, f model.QRFilter) ([]model.QRTicket, int64, error) {
	filter := map[string]any{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.IsValid != nil {
		filter["is_valid"] = *f.IsValid
	}
	skip, limit := f.Offset()
	return s.codes.Find(ctx, repository.Query{Filter: filter, Sort: "created_at DESC", Skip: skip, Limit: limit})
}

// ExpireStale sweeps codes whose expiry passed without a scan.
func (s *QRService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.codes.ExpireStale(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.QRExpiredSwept.Add(float64(n))
		logger.Log.Info("[SCHEDULER] expired stale QR codes", "count", n)
	}
	return n, nil
}
