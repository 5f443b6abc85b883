package model

import "time"

const (
	QRActive  = "active"
	QRUsed    = "used"
	QRExpired = "expired"
	QRInvalid = "invalid"
)

// QRTicket is the boarding credential of a Ticket. TicketId is unique so that a
// regenerated code overwrites the previous row instead of adding one.
type QRTicket struct {
	DTO
	TicketId          uint       `gorm:"uniqueIndex;not null" json:"ticketId"`
	QRData            string     `gorm:"column:qr_data;type:text;uniqueIndex;not null" json:"qrData"`
	QRImage           string     `gorm:"column:qr_image;type:text" json:"qrImage"`
	IsValid           bool       `gorm:"not null;default:true" json:"isValid"`
	ScannedAt         *time.Time `json:"scannedAt,omitempty"`
	ScannedBy         *uint      `json:"scannedBy,omitempty"`
	ExpiresAt         time.Time  `gorm:"index;not null" json:"expiresAt"`
	VerificationCount int        `gorm:"not null;default:0" json:"verificationCount"`
	Status            string     `gorm:"size:20;not null;default:'active'" json:"status"`
}

func (q QRTicket) IsExpired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// QRPayload is the JSON document encoded in the QR image. Field order is
// fixed by the struct so the serialized form is stable.
type QRPayload struct {
	TicketID  uint   `json:"ticketId"`
	UserID    uint   `json:"userId"`
	BusID     uint   `json:"busId"`
	Timestamp int64  `json:"timestamp"`
	Hash      string `json:"hash"`
}

type VerifyQRInput struct {
	QRData string `json:"qrData" validate:"required"`
}

type QRFilter struct {
	Pagination
	Status  string `query:"status"`
	IsValid *bool  `query:"isValid"`
}

// VerifiedQR is returned by a successful scan.
type VerifiedQR struct {
	QRCode *QRTicket `json:"qrCode"`
	Ticket *Ticket   `json:"ticket"`
}
