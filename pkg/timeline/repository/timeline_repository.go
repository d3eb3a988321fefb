package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type ActivityRepository interface {
	Create(ctx context.Context, a *entities.TimelineActivity) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.TimelineActivity, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.TimelineActivity, store.Pagination, error)
	Find(ctx context.Context, uid string, q store.ListQuery) ([]entities.TimelineActivity, error)
	Save(ctx context.Context, a *entities.TimelineActivity) error
	Delete(ctx context.Context, id uint, uid string) error
	// ReplaceGenerated drops the crop's generated activities that are still
	// scheduled and inserts acts, in one transaction.
	ReplaceGenerated(ctx context.Context, uid string, cropID uint, acts []entities.TimelineActivity) (int64, error)
}
