package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type CropRepository interface {
	Create(ctx context.Context, f *entities.Crop) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.Crop, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Crop, store.Pagination, error)
	Save(ctx context.Context, f *entities.Crop) error
	Delete(ctx context.Context, id uint, uid string) error
}
