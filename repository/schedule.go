package repository

import (
	"context"
	"fmt"
	"time"

	"bus_ticketing/model"

	"gorm.io/gorm"
)

type ScheduleRepository struct {
	Store[model.Schedule]
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{Store: NewStore[model.Schedule](db)}
}

// FindExpiredActive lists active schedules dated strictly before the given
// instant.
func (r *ScheduleRepository) FindExpiredActive(ctx context.Context, before time.Time) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.DB(ctx).
		Where("status = ? AND date < ?", model.ScheduleActive, before).
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("find expired schedules: %w", err)
	}
	return schedules, nil
}

// CompleteAndSpawn retires schedule id and inserts next in one transaction.
// It returns false without creating anything when the schedule is no longer
// active, which makes overlapping sweeps safe.
func (r *ScheduleRepository) CompleteAndSpawn(ctx context.Context, id uint, next *model.Schedule) (bool, error) {
	spawned := false
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Schedule{}).
			Where("id = ? AND status = ?", id, model.ScheduleActive).
			Update("status", model.ScheduleCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(next).Error; err != nil {
			return err
		}
		spawned = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("roll over schedule %d: %w", id, err)
	}
	return spawned, nil
}

// Cities returns the distinct origin and destination names of active
// schedules, sorted.
func (r *ScheduleRepository) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	err := r.DB(ctx).Raw(`
		SELECT city FROM (
			SELECT route_from AS city FROM schedules WHERE status = ?
			UNION
			SELECT route_to AS city FROM schedules WHERE status = ?
		) c WHERE city <> '' ORDER BY city`, model.ScheduleActive, model.ScheduleActive).
		Scan(&cities).Error
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	return cities, nil
}

func (r *ScheduleRepository) Search(ctx context.Context, f model.ScheduleFilter, loc *time.Location) ([]model.Schedule, int64, error) {
	db := r.DB(ctx).Model(&model.Schedule{})
	if f.From != "" {
		db = db.Where("route_from ILIKE ?", "%"+f.From+"%")
	}
	if f.To != "" {
		db = db.Where("route_to ILIKE ?", "%"+f.To+"%")
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.BusId > 0 {
		db = db.Where("bus_id = ?", f.BusId)
	}
	if f.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", f.Date, loc)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid date %q: %w", f.Date, err)
		}
		db = db.Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	skip, limit := f.Offset()
	var schedules []model.Schedule
	if err := db.Order("date ASC, departure_time ASC").Limit(limit).Offset(skip).Find(&schedules).Error; err != nil {
		return nil, 0, fmt.Errorf("search schedules: %w", err)
	}
	return schedules, total, nil
}

// FindOrphans returns schedules whose bus row no longer exists.
func (r *ScheduleRepository) FindOrphans(ctx context.Context) ([]model.Schedule, error) {
	var schedules []model.Schedule
	err := r.DB(ctx).
		Where("NOT EXISTS (SELECT 1 FROM buses WHERE buses.id = schedules.bus_id)").
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("find orphan schedules: %w", err)
	}
	return schedules, nil
}
