package repositoryImp

import (
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/field/repository"
	"farmhub/pkg/store"
)

type fieldRepo struct {
	*store.Scoped[entities.Field]
}

func New(db *gorm.DB) repository.FieldRepository {
	return &fieldRepo{store.NewScoped[entities.Field](db)}
}
