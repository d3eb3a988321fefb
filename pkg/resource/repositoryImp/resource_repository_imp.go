package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/resource/repository"
	"farmhub/pkg/store"
)

type resourceRepo struct {
	*store.Scoped[entities.Resource]
}

func New(db *gorm.DB) repository.ResourceRepository {
	return &resourceRepo{store.NewScoped[entities.Resource](db)}
}

func (r *resourceRepo) Tx(ctx context.Context, fn func(repository.ResourceRepository) error) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
