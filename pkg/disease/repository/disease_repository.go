package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type DiseaseRepository interface {
	Create(ctx context.Context, d *entities.Disease) error
	FindByID(ctx context.Context, id uint) (*entities.Disease, error)
	FindByName(ctx context.Context, name string) (*entities.Disease, error)
	List(ctx context.Context, search string, q store.ListQuery) ([]entities.Disease, store.Pagination, error)
	All(ctx context.Context) ([]entities.Disease, error)
	Save(ctx context.Context, d *entities.Disease) error
	Delete(ctx context.Context, id uint) error
}
