package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type FieldRepository interface {
	Create(ctx context.Context, f *entities.Field) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.Field, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Field, store.Pagination, error)
	Save(ctx context.Context, f *entities.Field) error
	Delete(ctx context.Context, id uint, uid string) error
}
