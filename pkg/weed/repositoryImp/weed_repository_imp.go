package repositoryImp

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/store"
	"farmhub/pkg/weed/repository"
)

type weedRepo struct {
	*store.Global[entities.Weed]
}

func NewWeeds(db *gorm.DB) repository.WeedRepository {
	return &weedRepo{store.NewGlobal[entities.Weed](db)}
}

type issueRepo struct {
	*store.Scoped[entities.WeedIssue]
}

func NewIssues(db *gorm.DB) repository.WeedIssueRepository {
	return &issueRepo{store.NewScoped[entities.WeedIssue](db)}
}

func (r *issueRepo) LastClosed(ctx context.Context, uid, weedName string, fieldID *uint) (*entities.WeedIssue, error) {
	tx := r.DB(ctx).
		Where("farmer = ? AND LOWER(weed_name) = ?", uid, strings.ToLower(strings.TrimSpace(weedName))).
		Where("status IN ?", []entities.WeedIssueStatus{entities.WeedControlled, entities.WeedCleared})
	if fieldID != nil {
		tx = tx.Where("field_id = ?", *fieldID)
	} else {
		tx = tx.Where("field_id IS NULL")
	}
	var w entities.WeedIssue
	if err := tx.Order("id DESC").First(&w).Error; err != nil {
		return nil, store.Wrap(err)
	}
	return &w, nil
}
