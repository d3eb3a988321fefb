// Package store holds the farmer-scoped GORM repository shared by the
// feature repositories.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a record is missing or belongs to another farmer.
var ErrNotFound = errors.New("record not found")

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ListQuery is a simple skip/limit page plus equality filters on columns.
// Scopes add conditions that are not plain equality, such as date ranges.
type ListQuery struct {
	Filters map[string]any
	Scopes  []func(*gorm.DB) *gorm.DB
	Order   string
	Page    int
	Limit   int
}

// Between limits col to [from, to]; nil bounds are open.
func Between(col string, from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if from != nil {
			tx = tx.Where(fmt.Sprintf("%s >= ?", col), *from)
		}
		if to != nil {
			tx = tx.Where(fmt.Sprintf("%s <= ?", col), *to)
		}
		return tx
	}
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Order == "" {
		q.Order = "id DESC"
	}
	return q
}

// Scoped is a CRUD repository over T where every query carries farmer = ?.
type Scoped[T any] struct {
	db *gorm.DB
}

func NewScoped[T any](db *gorm.DB) *Scoped[T] { return &Scoped[T]{db: db} }

func (r *Scoped[T]) DB(ctx context.Context) *gorm.DB { return r.db.WithContext(ctx) }

func (r *Scoped[T]) Create(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *Scoped[T]) FindByID(ctx context.Context, id uint, farmer string) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).Where("id = ? AND farmer = ?", id, farmer).First(&out).Error
	if err != nil {
		return nil, Wrap(err)
	}
	return &out, nil
}

func (r *Scoped[T]) List(ctx context.Context, farmer string, q ListQuery) ([]T, Pagination, error) {
	q = q.normalize()
	tx := r.db.WithContext(ctx).Model(new(T)).Where("farmer = ?", farmer).Scopes(q.Scopes...)
	for col, v := range q.Filters {
		tx = tx.Where(fmt.Sprintf("%s = ?", col), v)
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

// All returns every record of the farmer matching filters, unpaged.
func (r *Scoped[T]) All(ctx context.Context, farmer string, filters map[string]any) ([]T, error) {
	tx := r.db.WithContext(ctx).Where("farmer = ?", farmer)
	for col, v := range filters {
		tx = tx.Where(fmt.Sprintf("%s = ?", col), v)
	}
	out := []T{}
	return out, tx.Order("id ASC").Find(&out).Error
}

// Find is List without paging; Order defaults to id ASC.
func (r *Scoped[T]) Find(ctx context.Context, farmer string, q ListQuery) ([]T, error) {
	tx := r.db.WithContext(ctx).Where("farmer = ?", farmer).Scopes(q.Scopes...)
	for col, v := range q.Filters {
		tx = tx.Where(fmt.Sprintf("%s = ?", col), v)
	}
	order := q.Order
	if order == "" {
		order = "id ASC"
	}
	out := []T{}
	return out, tx.Order(order).Find(&out).Error
}

// Save persists the full document, running its BeforeSave derivations.
func (r *Scoped[T]) Save(ctx context.Context, v *T) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *Scoped[T]) Delete(ctx context.Context, id uint, farmer string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND farmer = ?", id, farmer).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Wrap maps gorm's not-found error onto ErrNotFound.
func Wrap(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
