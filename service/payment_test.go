package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bus_ticketing/apperror"
	"bus_ticketing/model"

	"github.com/jonboulle/clockwork"
)

type stubGateway struct {
	res     *model.PaymentLinkResponse
	err     error
	lastReq model.PaymentLinkRequest
	calls   int
}

func (g *stubGateway) CreateLink(ctx context.Context, req model.PaymentLinkRequest) (*model.PaymentLinkResponse, error) {
	g.calls++
	g.lastReq = req
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("gateway call without deadline")
	}
	return g.res, g.err
}

type busyLock struct{}

func (busyLock) Acquire(context.Context, string) (bool, error) { return false, nil }
func (busyLock) Release(context.Context, string)               {}

func orderTickets(orderNo string, n int) *fakeTickets {
	var rows []model.Ticket
	for i := 1; i <= n; i++ {
		o := orderNo
		rows = append(rows, model.Ticket{
			DTO:            model.DTO{ID: uint(i)},
			UserId:         owner.UserID,
			Status:         model.TicketBooked,
			PaymentStatus:  model.PaymentPending,
			PaymentOrderNo: &o,
		})
	}
	return newFakeTickets(rows...)
}

func newPaymentService(tickets *fakeTickets, gw PaymentGateway, lock OrderLocker) *PaymentService {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return NewPaymentService(tickets, gw, lock, clock, PaymentOptions{Tag1: "BusGoGo", CallbackURL: "http://front/payment/success", Timeout: time.Second})
}

func TestCreateLinkStampsTickets(t *testing.T) {
	tickets := newFakeTickets(
		model.Ticket{DTO: model.DTO{ID: 1}, UserId: owner.UserID, Status: model.TicketBooked, PaymentStatus: model.PaymentPending},
		model.Ticket{DTO: model.DTO{ID: 2}, UserId: owner.UserID, Status: model.TicketBooked, PaymentStatus: model.PaymentFailed},
	)
	gw := &stubGateway{res: &model.PaymentLinkResponse{RedirectURL: "https://pay/abc"}}
	svc := newPaymentService(tickets, gw, nil)

	link, err := svc.CreateLink(context.Background(), owner, model.CreatePaymentLinkInput{BookingIds: []uint{1, 2}, Amount: 300000})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}
	if link.RedirectURL != "https://pay/abc" || !strings.HasPrefix(link.OrderNo, "BOOKING_") {
		t.Fatalf("unexpected link %+v", link)
	}
	if gw.lastReq.Tag1 != "BusGoGo" || gw.lastReq.Tag2 != "10" || gw.lastReq.Amount != 300000 {
		t.Fatalf("unexpected gateway request %+v", gw.lastReq)
	}
	if !strings.HasSuffix(gw.lastReq.SuccessCallbackURL, "orderNo="+link.OrderNo) {
		t.Fatalf("callback url does not carry the order: %s", gw.lastReq.SuccessCallbackURL)
	}
	for _, id := range []uint{1, 2} {
		got := tickets.get(id)
		if got.PaymentOrderNo == nil || *got.PaymentOrderNo != link.OrderNo || got.PaymentStatus != model.PaymentPending {
			t.Fatalf("ticket %d not stamped: %+v", id, got)
		}
	}
}

func TestCreateLinkGatewayFailure(t *testing.T) {
	tickets := newFakeTickets(model.Ticket{DTO: model.DTO{ID: 1}, UserId: owner.UserID, Status: model.TicketBooked})
	svc := newPaymentService(tickets, &stubGateway{err: errors.New("dial tcp: timeout")}, nil)

	_, err := svc.CreateLink(context.Background(), owner, model.CreatePaymentLinkInput{BookingIds: []uint{1}, Amount: 1})
	if !apperror.Is(err, apperror.UpstreamFailure) {
		t.Fatalf("expected UpstreamFailure, got %v", err)
	}
	if got := tickets.get(1); got.PaymentOrderNo != nil {
		t.Fatalf("ticket stamped despite gateway failure")
	}
}

func TestCreateLinkValidatesBookings(t *testing.T) {
	tickets := newFakeTickets(
		model.Ticket{DTO: model.DTO{ID: 1}, UserId: owner.UserID, Status: model.TicketCancelled},
		model.Ticket{DTO: model.DTO{ID: 2}, UserId: stranger.UserID, Status: model.TicketBooked},
	)
	gw := &stubGateway{res: &model.PaymentLinkResponse{RedirectURL: "x"}}
	svc := newPaymentService(tickets, gw, nil)

	cases := []struct {
		ids  []uint
		kind apperror.Kind
	}{
		{[]uint{5}, apperror.NotFound},
		{[]uint{1}, apperror.InvalidState},
		{[]uint{2}, apperror.Forbidden},
	}
	for _, c := range cases {
		_, err := svc.CreateLink(context.Background(), owner, model.CreatePaymentLinkInput{BookingIds: c.ids, Amount: 1})
		if !apperror.Is(err, c.kind) {
			t.Fatalf("ids %v: expected %s, got %v", c.ids, c.kind, err)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("gateway must not be called for rejected bookings")
	}
}

func TestWebhookSettlesWholeOrderOnce(t *testing.T) {
	tickets := orderTickets("BOOKING_1", 3)
	svc := newPaymentService(tickets, nil, nil)

	res, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_1", Status: "SUCCESS"})
	if err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if res.Matched != 3 || res.Updated != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	for i := uint(1); i <= 3; i++ {
		got := tickets.get(i)
		if got.PaymentStatus != model.PaymentCompleted || got.Status != model.TicketBooked {
			t.Fatalf("ticket %d not settled: %+v", i, got)
		}
	}

	if _, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_1", Status: "COMPLETED"}); err != nil {
		t.Fatalf("duplicate webhook: %v", err)
	}
	for i := uint(1); i <= 3; i++ {
		if got := tickets.get(i); got.PaymentStatus != model.PaymentCompleted || got.Status != model.TicketBooked {
			t.Fatalf("duplicate delivery changed ticket %d: %+v", i, got)
		}
	}
}

func TestWebhookFailureDoesNotOverwriteSettledOrder(t *testing.T) {
	tickets := orderTickets("BOOKING_2", 2)
	svc := newPaymentService(tickets, nil, nil)

	if _, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_2", Status: "SUCCESS"}); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	res, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_2", Status: "CANCELLED"})
	if err != nil {
		t.Fatalf("late webhook: %v", err)
	}
	if res.Updated != 0 {
		t.Fatalf("late cancellation rewrote %d tickets", res.Updated)
	}
	if got := tickets.get(1); got.PaymentStatus != model.PaymentCompleted {
		t.Fatalf("settled ticket changed: %+v", got)
	}
}

func TestWebhookFailedStatusCancels(t *testing.T) {
	tickets := orderTickets("BOOKING_3", 1)
	svc := newPaymentService(tickets, nil, nil)
	if _, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_3", Status: "failed"}); err != nil {
		t.Fatalf("webhook: %v", err)
	}
	if got := tickets.get(1); got.PaymentStatus != model.PaymentFailed || got.Status != model.TicketCancelled {
		t.Fatalf("unexpected ticket %+v", got)
	}
}

func TestWebhookIgnoresUnknownStatus(t *testing.T) {
	tickets := orderTickets("BOOKING_4", 1)
	svc := newPaymentService(tickets, nil, nil)
	res, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_4", Status: "PROCESSING"})
	if err != nil || !res.Ignored {
		t.Fatalf("expected ignored result, got %+v %v", res, err)
	}
	if got := tickets.get(1); got.PaymentStatus != model.PaymentPending {
		t.Fatalf("unknown status changed ticket: %+v", got)
	}
}

func TestWebhookSkipsWhenOrderLocked(t *testing.T) {
	tickets := orderTickets("BOOKING_5", 1)
	svc := newPaymentService(tickets, nil, busyLock{})
	res, err := svc.HandleWebhook(context.Background(), model.PaymentWebhookInput{OrderNo: "BOOKING_5", Status: "SUCCESS"})
	if err != nil || !res.Ignored {
		t.Fatalf("expected locked delivery to be ignored, got %+v %v", res, err)
	}
}

func TestConfirmSuccess(t *testing.T) {
	tickets := orderTickets("BOOKING_6", 2)
	svc := newPaymentService(tickets, nil, nil)

	if _, err := svc.ConfirmSuccess(context.Background(), owner, "BOOKING_missing"); !apperror.Is(err, apperror.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := svc.ConfirmSuccess(context.Background(), stranger, "BOOKING_6"); !apperror.Is(err, apperror.Forbidden) {
		t.Fatalf("expected Forbidden, got %v", err)
	}
	for i := 0; i < 2; i++ {
		res, err := svc.ConfirmSuccess(context.Background(), owner, "BOOKING_6")
		if err != nil {
			t.Fatalf("confirm %d: %v", i, err)
		}
		if res.Matched != 2 {
			t.Fatalf("unexpected result %+v", res)
		}
	}
	if got := tickets.get(2); got.PaymentStatus != model.PaymentCompleted {
		t.Fatalf("ticket not confirmed: %+v", got)
	}
}

func TestConfirmSuccessWhileOrderLocked(t *testing.T) {
	tickets := orderTickets("BOOKING_7", 1)
	svc := newPaymentService(tickets, nil, busyLock{})

	res, err := svc.ConfirmSuccess(context.Background(), owner, "BOOKING_7")
	if !apperror.Is(err, apperror.InvalidState) {
		t.Fatalf("expected InvalidState while the order is locked, got %+v %v", res, err)
	}
	if got := tickets.get(1); got.PaymentStatus != model.PaymentPending {
		t.Fatalf("locked order must not be settled, got %s", got.PaymentStatus)
	}
}

func TestNewOrderNoIsUnique(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		no := NewOrderNo(now)
		if seen[no] {
			t.Fatalf("duplicate order number %s", no)
		}
		seen[no] = true
	}
}
