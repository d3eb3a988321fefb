package serviceImp

import (
	"context"

	"farmhub/entities"
	"farmhub/pkg/store"
	repo "farmhub/pkg/worker/repository"
	"farmhub/pkg/worker/service"
)

type workerSvc struct{ r repo.WorkerRepository }

func NewWorkerService(r repo.WorkerRepository) service.WorkerService { return &workerSvc{r} }

func (s *workerSvc) CreateWorker(ctx context.Context, w *entities.Worker) (*entities.Worker, error) {
	if w.Status == "" {
		w.Status = "active"
	}
	if w.Skills == nil {
		w.Skills = []string{}
	}
	if err := s.r.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workerSvc) GetWorkerByID(ctx context.Context, id uint, uid string) (*entities.Worker, error) {
	return s.r.FindByID(ctx, id, uid)
}

func (s *workerSvc) ListWorkers(ctx context.Context, uid string, q store.ListQuery) ([]entities.Worker, store.Pagination, error) {
	return s.r.List(ctx, uid, q)
}

func (s *workerSvc) UpdateWorker(ctx context.Context, w *entities.Worker) (*entities.Worker, error) {
	if err := s.r.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *workerSvc) DeleteWorker(ctx context.Context, id uint, uid string) error {
	return s.r.Delete(ctx, id, uid)
}
