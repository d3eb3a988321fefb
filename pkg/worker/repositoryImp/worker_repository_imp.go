package repositoryImp

import (
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/store"
	"farmhub/pkg/worker/repository"
)

type workerRepo struct {
	*store.Scoped[entities.Worker]
}

func New(db *gorm.DB) repository.WorkerRepository {
	return &workerRepo{store.NewScoped[entities.Worker](db)}
}
