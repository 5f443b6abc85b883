package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Query describes a filtered, sorted page of documents.
type Query struct {
	Filter map[string]any
	Sort   string
	Skip   int
	Limit  int
}

// Store is the generic document repository every resource is built on.
// Absent rows are reported as (nil, nil).
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) Store[T] {
	return Store[T]{db: db}
}

func (s Store[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var doc T
	if err := s.DB(ctx).First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find by id %d: %w", id, err)
	}
	return &doc, nil
}

func (s Store[T]) FindOne(ctx context.Context, filter map[string]any) (*T, error) {
	var doc T
	if err := s.DB(ctx).Where(filter).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &doc, nil
}

// Find returns one page of matching documents together with the total count.
func (s Store[T]) Find(ctx context.Context, q Query) ([]T, int64, error) {
	var model T
	db := s.DB(ctx).Model(&model)
	if len(q.Filter) > 0 {
		db = db.Where(q.Filter)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if q.Sort != "" {
		db = db.Order(q.Sort)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit).Offset(q.Skip)
	}

	var docs []T
	if err := db.Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	return docs, total, nil
}

func (s Store[T]) Create(ctx context.Context, doc *T) error {
	if err := s.DB(ctx).Create(doc).Error; err != nil {
		return fmt.Errorf("create: %w", err)
	}
	return nil
}

// UpdateByID applies patch to the row and reports whether it existed.
func (s Store[T]) UpdateByID(ctx context.Context, id uint, patch map[string]any) (bool, error) {
	var model T
	res := s.DB(ctx).Model(&model).Where("id = ?", id).Updates(patch)
	if res.Error != nil {
		return false, fmt.Errorf("update %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s Store[T]) DeleteByID(ctx context.Context, id uint) (bool, error) {
	var model T
	res := s.DB(ctx).Delete(&model, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
