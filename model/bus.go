package model

type Bus struct {
	DTO
	Name         string `gorm:"size:100;not null" json:"name"`
	Company      string `gorm:"size:100;not null" json:"company"`
	LicensePlate string `gorm:"size:20;uniqueIndex;not null" json:"licensePlate"`
	Capacity     int    `gorm:"not null" json:"capacity"`
	Phone        string `gorm:"size:30;not null" json:"phone"`
}

type CreateBusInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Company      string `json:"company" validate:"required,max=100"`
	LicensePlate string `json:"licensePlate" validate:"required,max=20"`
	Capacity     int    `json:"capacity" validate:"required,min=1"`
	Phone        string `json:"phone" validate:"required"`
}

type UpdateBusInput struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	Company      *string `json:"company" validate:"omitempty,max=100"`
	LicensePlate *string `json:"licensePlate" validate:"omitempty,max=20"`
	Capacity     *int    `json:"capacity" validate:"omitempty,min=1"`
	Phone        *string `json:"phone" validate:"omitempty"`
}

type BusFilter struct {
	Pagination
	Company string `query:"company"`
	Search  string `query:"search"`
}

// SeatSummary is the occupancy view of one bus.
type SeatSummary struct {
	BusId          uint     `json:"busId"`
	Name           string   `json:"name"`
	Company        string   `json:"company"`
	LicensePlate   string   `json:"licensePlate"`
	Phone          string   `json:"phone"`
	Capacity       int      `json:"capacity"`
	BookedSeats    []string `json:"bookedSeats"`
	AvailableSeats int      `json:"availableSeats"`
}
