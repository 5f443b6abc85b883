package repository

import (
	"context"
	"fmt"

	"bus_ticketing/model"

	"gorm.io/gorm"
)

type StationRepository struct {
	Store[model.Station]
}

func NewStationRepository(db *gorm.DB) *StationRepository {
	return &StationRepository{Store: NewStore[model.Station](db)}
}

// Queue returns the entries of one station ordered by queue position.
func (r *StationRepository) Queue(ctx context.Context, stationSlug string) ([]model.Station, error) {
	var entries []model.Station
	err := r.DB(ctx).
		Where("station_slug = ? AND status <> ?", stationSlug, model.StationDeparted).
		Order("queue_position ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("station queue %s: %w", stationSlug, err)
	}
	return entries, nil
}

func (r *StationRepository) ByBus(ctx context.Context, busID uint) ([]model.Station, error) {
	var entries []model.Station
	if err := r.DB(ctx).Where("bus_id = ?", busID).Order("estimated_arrival ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("queue by bus %d: %w", busID, err)
	}
	return entries, nil
}
