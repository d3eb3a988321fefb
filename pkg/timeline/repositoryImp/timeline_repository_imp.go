package repositoryImp

import (
	"context"

	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/store"
	"farmhub/pkg/timeline/repository"
)

type activityRepo struct {
	*store.Scoped[entities.TimelineActivity]
}

func New(db *gorm.DB) repository.ActivityRepository {
	return &activityRepo{store.NewScoped[entities.TimelineActivity](db)}
}

func (r *activityRepo) ReplaceGenerated(ctx context.Context, uid string, cropID uint, acts []entities.TimelineActivity) (int64, error) {
	var removed int64
	err := r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("farmer = ? AND crop_id = ? AND generated = ? AND status = ?",
			uid, cropID, true, entities.ActivityScheduled).Delete(&entities.TimelineActivity{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		if len(acts) == 0 {
			return nil
		}
		return tx.CreateInBatches(&acts, 100).Error
	})
	return removed, err
}
