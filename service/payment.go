package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bus_ticketing/apperror"
	"bus_ticketing/logger"
	"bus_ticketing/metrics"
	"bus_ticketing/model"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// PaymentGateway creates hosted payment links.
type PaymentGateway interface {
	CreateLink(ctx context.Context, req model.PaymentLinkRequest) (*model.PaymentLinkResponse, error)
}

// OrderLocker guards concurrent settlement of the same order.
type OrderLocker interface {
	Acquire(ctx context.Context, orderNo string) (bool, error)
	Release(ctx context.Context, orderNo string)
}

type PaymentOptions struct {
	Tag1        string
	CallbackURL string
	Timeout     time.Duration
}

type PaymentService struct {
	tickets TicketStore
	gateway PaymentGateway
	lock    OrderLocker
	clock   clockwork.Clock
	opts    PaymentOptions
}

func NewPaymentService(tickets TicketStore, gateway PaymentGateway, lock OrderLocker, clock clockwork.Clock, opts PaymentOptions) *PaymentService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &PaymentService{tickets: tickets, gateway: gateway, lock: lock, clock: clock, opts: opts}
}

// NewOrderNo builds a gateway order number that is unique across instances.
func NewOrderNo(now time.Time) string {
	return fmt.Sprintf("BOOKING_%d_%s", now.UnixMilli(), strings.ToUpper(uuid.NewString()[:8]))
}

func (s *PaymentService) CreateLink(ctx context.Context, p model.Principal, in model.CreatePaymentLinkInput) (*model.PaymentLink, error) {
	for _, id := range in.BookingIds {
		t, err := s.tickets.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, apperror.New(apperror.NotFound, fmt.Sprintf("booking %d not found", id))
		}
		if t.UserId != p.UserID && !p.IsAdmin() {
			return nil, apperror.New(apperror.Forbidden, fmt.Sprintf("booking %d belongs to another user", id))
		}
		if t.Status != model.TicketBooked {
			return nil, apperror.New(apperror.InvalidState, fmt.Sprintf("booking %d is %s", id, t.Status))
		}
		if t.PaymentStatus == model.PaymentCompleted {
			return nil, apperror.New(apperror.InvalidState, fmt.Sprintf("booking %d is already paid", id))
		}
	}

	orderNo := NewOrderNo(s.clock.Now())
	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Bus ticket booking (%d seats)", len(in.BookingIds))
	}
	req := model.PaymentLinkRequest{
		OrderNo:     orderNo,
		Amount:      in.Amount,
		Description: description,
		Tag1:        s.opts.Tag1,
		Tag2:        fmt.Sprint(p.UserID),
	}
	if s.opts.CallbackURL != "" {
		req.SuccessCallbackURL = s.opts.CallbackURL + "?orderNo=" + orderNo
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	res, err := s.gateway.CreateLink(callCtx, req)
	if err != nil {
		metrics.PaymentLinks.WithLabelValues("error").Inc()
		logger.Log.Error("[PAYMENT] gateway request failed", "orderNo", orderNo, "error", err)
		return nil, apperror.Wrap(apperror.UpstreamFailure, "payment gateway unavailable", err)
	}
	if res == nil || res.RedirectURL == "" {
		metrics.PaymentLinks.WithLabelValues("error").Inc()
		return nil, apperror.New(apperror.UpstreamFailure, "payment gateway returned no redirect URL")
	}

	if _, err := s.tickets.StampOrder(ctx, in.BookingIds, orderNo); err != nil {
		return nil, err
	}
	metrics.PaymentLinks.WithLabelValues("ok").Inc()
	logger.Log.Info("[PAYMENT] payment link created", "orderNo", orderNo, "bookings", len(in.BookingIds))
	return &model.PaymentLink{OrderNo: orderNo, RedirectURL: res.RedirectURL}, nil
}

// gatewayOutcome maps a gateway status onto the ticket payment and booking
// status. Unknown statuses report ok=false.
func gatewayOutcome(status string) (paymentStatus, ticketStatus string, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case model.GatewaySuccess, model.GatewayCompleted:
		return model.PaymentCompleted, model.TicketBooked, true
	case model.GatewayFailed, model.GatewayCancelled:
		return model.PaymentFailed, model.TicketCancelled, true
	}
	return "", "", false
}

// HandleWebhook applies a gateway callback. Unknown statuses and unknown
// orders are ignored; callers acknowledge the gateway regardless of the result.
func (s *PaymentService) HandleWebhook(ctx context.Context, in model.PaymentWebhookInput) (model.SettleResult, error) {
	result := model.SettleResult{OrderNo: in.OrderNo}
	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = "EMPTY"
	}
	metrics.PaymentWebhooks.WithLabelValues(status).Inc()

	paymentStatus, ticketStatus, ok := gatewayOutcome(in.Status)
	if !ok || in.OrderNo == "" {
		logger.Log.Warn("[PAYMENT] ignoring webhook", "orderNo", in.OrderNo, "status", in.Status)
		result.Ignored = true
		return result, nil
	}
	return s.settle(ctx, in.OrderNo, paymentStatus, ticketStatus)
}

// ConfirmSuccess is the frontend confirmation after the gateway redirect.
func (s *PaymentService) ConfirmSuccess(ctx context.Context, p model.Principal, orderNo string) (model.SettleResult, error) {
	tickets, err := s.tickets.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return model.SettleResult{}, err
	}
	if len(tickets) == 0 {
		return model.SettleResult{}, apperror.New(apperror.NotFound, "no bookings found for this order")
	}
	if !p.IsAdmin() {
		for _, t := range tickets {
			if t.UserId != p.UserID {
				return model.SettleResult{}, apperror.New(apperror.Forbidden, "order belongs to another user")
			}
		}
	}
	res, err := s.settle(ctx, orderNo, model.PaymentCompleted, model.TicketBooked)
	if err == nil && res.Ignored {
		// A gateway callback for this order is being applied; its outcome may differ.
		return model.SettleResult{}, apperror.New(apperror.InvalidState, "order is being processed")
	}
	return res, err
}

func (s *PaymentService) settle(ctx context.Context, orderNo, paymentStatus, ticketStatus string) (model.SettleResult, error) {
	result := model.SettleResult{OrderNo: orderNo, PaymentStatus: paymentStatus}

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, orderNo)
		if err != nil {
			logger.Log.Warn("[PAYMENT] order lock unavailable", "orderNo", orderNo, "error", err)
		} else if !acquired {
			// Another delivery of the same order is being applied right now.
			result.Ignored = true
			return result, nil
		} else {
			defer s.lock.Release(ctx, orderNo)
		}
	}

	tickets, err := s.tickets.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return result, err
	}
	result.Matched = len(tickets)
	if len(tickets) == 0 {
		logger.Log.Warn("[PAYMENT] no bookings for order", "orderNo", orderNo)
		return result, nil
	}

	updated, err := s.tickets.SettleOrder(ctx, orderNo, paymentStatus, ticketStatus)
	if err != nil {
		return result, err
	}
	result.Updated = updated
	logger.Log.Info("[PAYMENT] order settled", "orderNo", orderNo, "paymentStatus", paymentStatus, "updated", updated)
	return result, nil
}
