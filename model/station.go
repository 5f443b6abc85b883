package model

import "time"

const (
	StationWaiting   = "waiting"
	StationBoarding  = "boarding"
	StationDeparted  = "departed"
	StationCancelled = "cancelled"
)

type StationLocation struct {
	Address   string   `gorm:"size:255;not null" json:"address" validate:"required"`
	City      string   `gorm:"size:100;not null" json:"city" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Station is one bus's place in a station's boarding queue.
type Station struct {
	DTO
	StationName        string          `gorm:"size:100;not null" json:"stationName"`
	StationSlug        string          `gorm:"size:120;index:idx_station_queue,priority:1;not null" json:"stationSlug"`
	Location           StationLocation `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	BusId              uint            `gorm:"index;not null" json:"busId"`
	QueuePosition      int             `gorm:"index:idx_station_queue,priority:2;not null" json:"queuePosition"`
	EstimatedArrival   time.Time       `gorm:"not null" json:"estimatedArrival"`
	ActualArrival      *time.Time      `json:"actualArrival,omitempty"`
	EstimatedDeparture *time.Time      `json:"estimatedDeparture,omitempty"`
	ActualDeparture    *time.Time      `json:"actualDeparture,omitempty"`
	Status             string          `gorm:"size:20;not null;default:'waiting'" json:"status"`
}

type CreateStationInput struct {
	StationName        string          `json:"stationName" validate:"required,max=100"`
	Location           StationLocation `json:"location"`
	BusId              uint            `json:"busId" validate:"required,gt=0"`
	QueuePosition      int             `json:"queuePosition" validate:"required,min=1"`
	EstimatedArrival   time.Time       `json:"estimatedArrival" validate:"required"`
	EstimatedDeparture *time.Time      `json:"estimatedDeparture" validate:"omitempty"`
}

type UpdateStationInput struct {
	QueuePosition      *int       `json:"queuePosition" validate:"omitempty,min=1"`
	EstimatedArrival   *time.Time `json:"estimatedArrival" validate:"omitempty"`
	ActualArrival      *time.Time `json:"actualArrival" validate:"omitempty"`
	EstimatedDeparture *time.Time `json:"estimatedDeparture" validate:"omitempty"`
	ActualDeparture    *time.Time `json:"actualDeparture" validate:"omitempty"`
	Status             *string    `json:"status" validate:"omitempty,oneof=waiting boarding departed cancelled"`
}

// QueueEvent is published whenever a station queue changes.
type QueueEvent struct {
	Action      string   `json:"action"` // created, updated, deleted
	StationSlug string   `json:"stationSlug"`
	Entry       *Station `json:"entry,omitempty"`
	EntryId     uint     `json:"entryId"`
}
