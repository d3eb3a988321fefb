package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type ResourceRepository interface {
	Create(ctx context.Context, r *entities.Resource) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.Resource, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Resource, store.Pagination, error)
	All(ctx context.Context, uid string, filters map[string]any) ([]entities.Resource, error)
	Save(ctx context.Context, r *entities.Resource) error
	Delete(ctx context.Context, id uint, uid string) error
	// Tx runs fn against a repository bound to one database transaction.
	Tx(ctx context.Context, fn func(r ResourceRepository) error) error
}
