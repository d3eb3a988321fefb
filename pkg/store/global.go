package store

import (
	"context"

	"gorm.io/gorm"
)

// Global is a CRUD repository over reference tables shared by all farmers.
type Global[T any] struct {
	db *gorm.DB
}

func NewGlobal[T any](db *gorm.DB) *Global[T] { return &Global[T]{db: db} }

func (r *Global[T]) Create(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *Global[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, Wrap(err)
	}
	return &out, nil
}

// FindByName matches name case-insensitively.
func (r *Global[T]) FindByName(ctx context.Context, name string) (*T, error) {
	var out T
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&out).Error; err != nil {
		return nil, Wrap(err)
	}
	return &out, nil
}

// List pages the table; search matches name as a case-insensitive substring.
func (r *Global[T]) List(ctx context.Context, search string, q ListQuery) ([]T, Pagination, error) {
	q = q.normalize()
	if q.Order == "id DESC" {
		q.Order = "name ASC"
	}
	tx := r.db.WithContext(ctx).Model(new(T))
	if search != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+lower(search)+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}
	out := []T{}
	if err := tx.Order(q.Order).Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&out).Error; err != nil {
		return nil, Pagination{}, err
	}
	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return out, Pagination{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}, nil
}

func (r *Global[T]) All(ctx context.Context) ([]T, error) {
	out := []T{}
	return out, r.db.WithContext(ctx).Order("name ASC").Find(&out).Error
}

func (r *Global[T]) Save(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *Global[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
