package repository

import (
	"context"
	"fmt"
	"strings"

	"bus_ticketing/model"

	"gorm.io/gorm"
)

type BusRepository struct {
	Store[model.Bus]
}

func NewBusRepository(db *gorm.DB) *BusRepository {
	return &BusRepository{Store: NewStore[model.Bus](db)}
}

func (r *BusRepository) FindByPlate(ctx context.Context, plate string) (*model.Bus, error) {
	return r.FindOne(ctx, map[string]any{"license_plate": strings.ToUpper(strings.TrimSpace(plate))})
}

func (r *BusRepository) Search(ctx context.Context, f model.BusFilter) ([]model.Bus, int64, error) {
	db := r.DB(ctx).Model(&model.Bus{})
	if f.Company != "" {
		db = db.Where("company = ?", f.Company)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("name ILIKE ? OR license_plate ILIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count buses: %w", err)
	}

	skip, limit := f.Offset()
	var buses []model.Bus
	if err := db.Order("created_at DESC").Limit(limit).Offset(skip).Find(&buses).Error; err != nil {
		return nil, 0, fmt.Errorf("search buses: %w", err)
	}
	return buses, total, nil
}
