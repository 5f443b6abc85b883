package model

// Statuses the payment gateway reports on its webhook.
const (
	GatewaySuccess   = "SUCCESS"
	GatewayCompleted = "COMPLETED"
	GatewayFailed    = "FAILED"
	GatewayCancelled = "CANCELLED"
)

type PaymentLinkRequest struct {
	OrderNo            string  `json:"orderNo"`
	Amount             float64 `json:"amount"`
	Description        string  `json:"description"`
	Tag1               string  `json:"tag1"`
	Tag2               string  `json:"tag2"`
	SuccessCallbackURL string  `json:"successCallbackUrl,omitempty"`
}

type PaymentLinkResponse struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirectURL"`
}

type CreatePaymentLinkInput struct {
	BookingIds  []uint  `json:"bookingIds" validate:"required,min=1,dive,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"omitempty,max=255"`
}

// PaymentWebhookInput is decoded leniently: the gateway may add fields, and
// amount arrives either as a number or as a string. Only orderNo and status
// drive settlement.
type PaymentWebhookInput struct {
	OrderNo string `json:"orderNo"`
	Status  string `json:"status"`
	Amount  any    `json:"amount,omitempty"`
}

type ConfirmPaymentInput struct {
	OrderNo string `json:"orderNo" validate:"required"`
}

type PaymentLink struct {
	OrderNo     string `json:"orderNo"`
	RedirectURL string `json:"redirectURL"`
}

// SettleResult reports a bulk payment transition for one order.
type SettleResult struct {
	OrderNo       string `json:"orderNo"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
	Matched       int    `json:"matched"`
	Updated       int64  `json:"updatedCount"`
	Ignored       bool   `json:"ignored,omitempty"`
}
