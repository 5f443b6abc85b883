package model

import "time"

const (
	TicketBooked    = "booked"
	TicketCancelled = "cancelled"
	TicketCompleted = "completed"
	TicketExpired   = "expired"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentRefunded  = "refunded"
	PaymentFailed    = "failed"
)

// Ticket is a passenger booking. Tickets are never deleted; cancelling only
// changes Status.
type Ticket struct {
	DTO
	UserId           uint       `gorm:"index:idx_ticket_user_status,priority:1;not null" json:"userId"`
	BusId            uint       `gorm:"index:idx_ticket_bus_departure,priority:1;not null" json:"busId"`
	ScheduleId       *uint      `gorm:"index" json:"scheduleId,omitempty"`
	SeatNumber       string     `gorm:"size:10;not null" json:"seatNumber"`
	DepartureStation string     `gorm:"size:100;not null" json:"departureStation"`
	ArrivalStation   string     `gorm:"size:100;not null" json:"arrivalStation"`
	DepartureTime    time.Time  `gorm:"index:idx_ticket_bus_departure,priority:2;not null" json:"departureTime"`
	ArrivalTime      *time.Time `json:"arrivalTime,omitempty"`
	Price            float64    `gorm:"not null" json:"price"`
	Status           string     `gorm:"size:20;index:idx_ticket_user_status,priority:2;not null;default:'booked'" json:"status"`
	BookingDate      time.Time  `json:"bookingDate"`
	PassengerName    string     `gorm:"size:100" json:"passengerName,omitempty"`
	PassengerAge     *int       `json:"passengerAge,omitempty"`
	PassengerGender  string     `gorm:"size:10" json:"passengerGender,omitempty"`
	PaymentStatus    string     `gorm:"size:20;not null;default:'pending'" json:"paymentStatus"`
	PaymentMethod    string     `gorm:"size:20" json:"paymentMethod,omitempty"`
	PaymentOrderNo   *string    `gorm:"size:64;index" json:"paymentOrderNo,omitempty"`
}

type CreateTicketInput struct {
	BusId            uint       `json:"busId" validate:"required,gt=0"`
	ScheduleId       *uint      `json:"scheduleId" validate:"omitempty,gt=0"`
	SeatNumber       string     `json:"seatNumber" validate:"required,max=10"`
	DepartureStation string     `json:"departureStation" validate:"required"`
	ArrivalStation   string     `json:"arrivalStation" validate:"required"`
	DepartureTime    time.Time  `json:"departureTime" validate:"required"`
	ArrivalTime      *time.Time `json:"arrivalTime" validate:"omitempty"`
	Price            float64    `json:"price" validate:"gte=0"`
	PassengerName    string     `json:"passengerName" validate:"omitempty,max=100"`
	PassengerAge     *int       `json:"passengerAge" validate:"omitempty,gte=0,lte=150"`
	PassengerGender  string     `json:"passengerGender" validate:"omitempty,oneof=male female other"`
	PaymentMethod    string     `json:"paymentMethod" validate:"omitempty,oneof=card cash upi wallet phapay"`
}

// UpdateTicketInput carries the passenger-editable fields of a booking.
// Status and payment fields are only changed through cancel and payment flows.
type UpdateTicketInput struct {
	SeatNumber      *string `json:"seatNumber" validate:"omitempty,max=10"`
	PassengerName   *string `json:"passengerName" validate:"omitempty,max=100"`
	PassengerAge    *int    `json:"passengerAge" validate:"omitempty,gte=0,lte=150"`
	PassengerGender *string `json:"passengerGender" validate:"omitempty,oneof=male female other"`
	PaymentMethod   *string `json:"paymentMethod" validate:"omitempty,oneof=card cash upi wallet phapay"`
}

type FilterTicketInput struct {
	Pagination
	Status        string `query:"status"`
	BusId         uint   `query:"busId"`
	PaymentStatus string `query:"paymentStatus"`
}
