package service

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
)

type WorkerService interface {
	CreateWorker(ctx context.Context, f *entities.Worker) (*entities.Worker, error)
	GetWorkerByID(ctx context.Context, id uint, uid string) (*entities.Worker, error)
	ListWorkers(ctx context.Context, uid string, q store.ListQuery) ([]entities.Worker, store.Pagination, error)
	UpdateWorker(ctx context.Context, f *entities.Worker) (*entities.Worker, error)
	DeleteWorker(ctx context.Context, id uint, uid string) error
}
