package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

// WeedRepository holds the shared weed reference.
type WeedRepository interface {
	Create(ctx context.Context, w *entities.Weed) error
	FindByID(ctx context.Context, id uint) (*entities.Weed, error)
	FindByName(ctx context.Context, name string) (*entities.Weed, error)
	List(ctx context.Context, search string, q store.ListQuery) ([]entities.Weed, store.Pagination, error)
	All(ctx context.Context) ([]entities.Weed, error)
	Save(ctx context.Context, w *entities.Weed) error
	Delete(ctx context.Context, id uint) error
}

type WeedIssueRepository interface {
	Create(ctx context.Context, w *entities.WeedIssue) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.WeedIssue, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.WeedIssue, store.Pagination, error)
	All(ctx context.Context, uid string, filters map[string]any) ([]entities.WeedIssue, error)
	// LastClosed returns the newest controlled or cleared issue of the same weed
	// on the same field, used to flag recurrences.
	LastClosed(ctx context.Context, uid, weedName string, fieldID *uint) (*entities.WeedIssue, error)
	Save(ctx context.Context, w *entities.WeedIssue) error
	Delete(ctx context.Context, id uint, uid string) error
}
