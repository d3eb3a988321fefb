package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type CropHealthRepository interface {
	Create(ctx context.Context, h *entities.CropHealth) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.CropHealth, error)
	FindByCrop(ctx context.Context, cropID uint, uid string) (*entities.CropHealth, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.CropHealth, store.Pagination, error)
	All(ctx context.Context, uid string, filters map[string]any) ([]entities.CropHealth, error)
	Save(ctx context.Context, h *entities.CropHealth) error
	Delete(ctx context.Context, id uint, uid string) error
}
