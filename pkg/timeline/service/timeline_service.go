package service

import (
	"context"
	"time"

	"farmhub/entities"
	"farmhub/pkg/planner"
	"farmhub/pkg/store"
)

type TimelineService interface {
	Create(ctx context.Context, a *entities.TimelineActivity) (*entities.TimelineActivity, error)
	Get(ctx context.Context, id uint, uid string) (*entities.TimelineActivity, error)
	List(ctx context.Context, uid string, q store.ListQuery) ([]entities.TimelineActivity, store.Pagination, error)
	Update(ctx context.Context, a *entities.TimelineActivity) (*entities.TimelineActivity, error)
	Delete(ctx context.Context, id uint, uid string) error
	Upcoming(ctx context.Context, uid string, days int) ([]entities.TimelineActivity, error)
	Complete(ctx context.Context, id uint, uid string, in CompleteInput) (*entities.TimelineActivity, error)
	Generate(ctx context.Context, cropID uint, uid string) (*GenerateResult, error)
}

// CompleteInput closes an activity. ResourcesUsed, when given, replaces the
// planned list before stock is drawn.
type CompleteInput struct {
	CompletedDate *time.Time             `json:"completed_date,omitempty"`
	ResourcesUsed []entities.ResourceUse `json:"resources_used" validate:"dive"`
	Cost          *float64               `json:"cost,omitempty" validate:"omitempty,gte=0"`
	Notes         string                 `json:"notes"`
	CompletedBy   string                 `json:"-"`
}

type GenerateResult struct {
	CropID     uint                        `json:"crop_id"`
	Stages     []planner.StagePlan         `json:"stages"`
	Activities []entities.TimelineActivity `json:"activities"`
	Replaced   int64                       `json:"replaced"`
}

const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 90
)
