package service

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type FieldService interface {
	CreateField(ctx context.Context, f *entities.Field) (*entities.Field, error)
	GetFieldByID(ctx context.Context, id uint, uid string) (*entities.Field, error)
	ListFields(ctx context.Context, uid string, q store.ListQuery) ([]entities.Field, store.Pagination, error)
	UpdateField(ctx context.Context, f *entities.Field) (*entities.Field, error)
	DeleteField(ctx context.Context, id uint, uid string) error
}
