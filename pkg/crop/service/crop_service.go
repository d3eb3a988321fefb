package service

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type CropService interface {
	CreateCrop(ctx context.Context, f *entities.Crop) (*entities.Crop, error)
	GetCropByID(ctx context.Context, id uint, uid string) (*entities.Crop, error)
	ListCrops(ctx context.Context, uid string, q store.ListQuery) ([]entities.Crop, store.Pagination, error)
	UpdateCrop(ctx context.Context, f *entities.Crop) (*entities.Crop, error)
	DeleteCrop(ctx context.Context, id uint, uid string) error
}
