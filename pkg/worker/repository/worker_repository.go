package repository

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type WorkerRepository interface {
	Create(ctx context.Context, f *entities.Worker) error
	FindByID(ctx context.Context, id uint, uid string) (*entities.Worker, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Worker, store.Pagination, error)
	Save(ctx context.Context, f *entities.Worker) error
	Delete(ctx context.Context, id uint, uid string) error
}
