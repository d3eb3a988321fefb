package repositoryImp

import (
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/disease/repository"
	"farmhub/pkg/store"
)

type diseaseRepo struct {
	*store.Global[entities.Disease]
}

func New(db *gorm.DB) repository.DiseaseRepository {
	return &diseaseRepo{store.NewGlobal[entities.Disease](db)}
}
