package model

import "time"

const (
	ScheduleActive    = "active"
	ScheduleInactive  = "inactive"
	ScheduleCompleted = "completed"
	ScheduleCancelled = "cancelled"
)

type Route struct {
	From string `gorm:"size:100;not null" json:"from" validate:"required"`
	To   string `gorm:"size:100;not null" json:"to" validate:"required"`
}

// Schedule is one dated run of a bus. Date holds the start of the calendar day
// in the operating timezone. BusId is a plain reference: deleting a bus never
// cascades, so orphaned schedules are possible and reported separately.
type Schedule struct {
	DTO
	BusId          uint      `gorm:"index;not null" json:"busId"`
	Route          Route     `gorm:"embedded;embeddedPrefix:route_" json:"route"`
	DepartureTime  string    `gorm:"size:5;not null" json:"departureTime"`
	ArrivalTime    string    `gorm:"size:5;not null" json:"arrivalTime"`
	Duration       string    `gorm:"size:20" json:"duration"`
	Date           time.Time `gorm:"index;not null" json:"date"`
	Price          float64   `gorm:"not null" json:"price"`
	PricePerSeat   float64   `gorm:"not null" json:"pricePerSeat"`
	AvailableSeats int       `gorm:"not null" json:"availableSeats"`
	Status         string    `gorm:"size:20;index;not null;default:'active'" json:"status"`
}

type CreateScheduleInput struct {
	BusId          uint    `json:"busId" validate:"required,gt=0"`
	Route          Route   `json:"route"`
	DepartureTime  string  `json:"departureTime" validate:"required,datetime=15:04"`
	ArrivalTime    string  `json:"arrivalTime" validate:"required,datetime=15:04"`
	Duration       string  `json:"duration" validate:"required"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	Price          float64 `json:"price" validate:"gte=0"`
	PricePerSeat   float64 `json:"pricePerSeat" validate:"gte=0"`
	AvailableSeats int     `json:"availableSeats" validate:"gte=0"`
}

type UpdateScheduleInput struct {
	DepartureTime  *string  `json:"departureTime" validate:"omitempty,datetime=15:04"`
	ArrivalTime    *string  `json:"arrivalTime" validate:"omitempty,datetime=15:04"`
	Duration       *string  `json:"duration" validate:"omitempty"`
	Date           *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	PricePerSeat   *float64 `json:"pricePerSeat" validate:"omitempty,gte=0"`
	AvailableSeats *int     `json:"availableSeats" validate:"omitempty,gte=0"`
	Status         *string  `json:"status" validate:"omitempty,oneof=active inactive completed cancelled"`
}

type ScheduleFilter struct {
	Pagination
	From   string `query:"from"`
	To     string `query:"to"`
	Date   string `query:"date"`
	Status string `query:"status"`
	BusId  uint   `query:"busId"`
}

// RolloverReport summarises one rollover sweep.
type RolloverReport struct {
	Found     int       `json:"found"`
	Completed int       `json:"completed"`
	Created   int       `json:"created"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	NewDate   time.Time `json:"newDate"`
}
