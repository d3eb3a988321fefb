package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/crophealth/repository"
	"farmhub/pkg/store"
)

type cropHealthRepo struct {
	*store.Scoped[entities.CropHealth]
}

func New(db *gorm.DB) repository.CropHealthRepository {
	return &cropHealthRepo{store.NewScoped[entities.CropHealth](db)}
}

func (r *cropHealthRepo) FindByCrop(ctx context.Context, cropID uint, uid string) (*entities.CropHealth, error) {
	var h entities.CropHealth
	err := r.DB(ctx).Where("crop_id = ? AND farmer = ?", cropID, uid).First(&h).Error
	if err != nil {
		return nil, store.Wrap(err)
	}
	return &h, nil
}
