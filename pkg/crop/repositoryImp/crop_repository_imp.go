package repositoryImp

import (
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/crop/repository"
	"farmhub/pkg/store"
)

type cropRepo struct {
	*store.Scoped[entities.Crop]
}

func New(db *gorm.DB) repository.CropRepository {
	return &cropRepo{store.NewScoped[entities.Crop](db)}
}
