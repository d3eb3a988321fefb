package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	cropRepo "farmhub/pkg/crop/repository"
	fieldRepo "farmhub/pkg/field/repository"
	"farmhub/pkg/metrics"
	"farmhub/pkg/planner"
	"farmhub/pkg/store"
	"farmhub/pkg/timeline/repository"
	"farmhub/pkg/timeline/service"
)

// Stock draws resources for completed activities.
type Stock interface {
	UseMany(ctx context.Context, uid string, uses []entities.ResourceUse, in entities.UseInput) ([]entities.UsageEntry, error)
}

type Deps struct {
	Repo    repository.ActivityRepository
	Crops   cropRepo.CropRepository
	Fields  fieldRepo.FieldRepository
	Stock   Stock
	Planner planner.RulesEngine
	Log     *zap.Logger
}

type Svc struct {
	r       repository.ActivityRepository
	crops   cropRepo.CropRepository
	fields  fieldRepo.FieldRepository
	stock   Stock
	planner planner.RulesEngine
	log     *zap.Logger
	now     func() time.Time
}

func New(d Deps) *Svc {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Planner == nil {
		d.Planner = planner.Default()
	}
	return &Svc{r: d.Repo, crops: d.Crops, fields: d.Fields, stock: d.Stock, planner: d.Planner, log: d.Log, now: time.Now}
}

var _ service.TimelineService = (*Svc)(nil)

func badRequest(msg string) error { return fmt.Errorf("%w: %s", apierr.ErrBadRequest, msg) }

// checkRefs rejects crop and field ids the farmer does not own.
func (s *Svc) checkRefs(ctx context.Context, a *entities.TimelineActivity) error {
	if a.CropID != nil {
		if _, err := s.crops.FindByID(ctx, *a.CropID, a.Farmer); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return badRequest("unknown crop_id")
			}
			return err
		}
	}
	if a.FieldID != nil {
		if _, err := s.fields.FindByID(ctx, *a.FieldID, a.Farmer); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return badRequest("unknown field_id")
			}
			return err
		}
	}
	if a.ScheduledDate.IsZero() {
		return badRequest("scheduled_date is required")
	}
	return nil
}

func (s *Svc) Create(ctx context.Context, a *entities.TimelineActivity) (*entities.TimelineActivity, error) {
	if err := s.checkRefs(ctx, a); err != nil {
		return nil, err
	}
	if a.Status == "" {
		a.Status = entities.ActivityScheduled
	}
	if a.Priority == "" {
		a.Priority = "medium"
	}
	if a.ResourcesUsed == nil {
		a.ResourcesUsed = []entities.ResourceUse{}
	}
	a.Generated = false
	if err := s.r.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Svc) Get(ctx context.Context, id uint, uid string) (*entities.TimelineActivity, error) {
	return s.r.FindByID(ctx, id, uid)
}

func (s *Svc) List(ctx context.Context, uid string, q store.ListQuery) ([]entities.TimelineActivity, store.Pagination, error) {
	if q.Order == "" {
		q.Order = "scheduled_date ASC, id ASC"
	}
	return s.r.List(ctx, uid, q)
}

func (s *Svc) Update(ctx context.Context, a *entities.TimelineActivity) (*entities.TimelineActivity, error) {
	if err := s.checkRefs(ctx, a); err != nil {
		return nil, err
	}
	if a.Status == entities.ActivityCompleted && a.CompletedDate == nil {
		now := s.now()
		a.CompletedDate = &now
	}
	if err := s.r.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Svc) Delete(ctx context.Context, id uint, uid string) error {
	return s.r.Delete(ctx, id, uid)
}

// Upcoming lists open activities due from now through the next days.
func (s *Svc) Upcoming(ctx context.Context, uid string, days int) ([]entities.TimelineActivity, error) {
	if days <= 0 {
		days = service.DefaultUpcomingDays
	}
	if days > service.MaxUpcomingDays {
		days = service.MaxUpcomingDays
	}
	from := s.now()
	to := from.AddDate(0, 0, days)
	open := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status IN ?", []entities.ActivityStatus{entities.ActivityScheduled, entities.ActivityInProgress})
	}
	return s.r.Find(ctx, uid, store.ListQuery{
		Scopes: []func(*gorm.DB) *gorm.DB{open, store.Between("scheduled_date", &from, &to)},
		Order:  "scheduled_date ASC, id ASC",
	})
}

// Complete draws the activity's resources from stock, then marks it done.
// Nothing is saved when any resource is short.
func (s *Svc) Complete(ctx context.Context, id uint, uid string, in service.CompleteInput) (*entities.TimelineActivity, error) {
	a, err := s.r.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	switch a.Status {
	case entities.ActivityCompleted:
		return nil, fmt.Errorf("%w: activity already completed", apierr.ErrConflict)
	case entities.ActivityCancelled:
		return nil, badRequest("activity is cancelled")
	}
	if in.ResourcesUsed != nil {
		a.ResourcesUsed = in.ResourcesUsed
	}
	if len(a.ResourcesUsed) > 0 {
		_, err := s.stock.UseMany(ctx, uid, a.ResourcesUsed, entities.UseInput{
			Purpose: a.Title,
			CropID:  a.CropID,
			FieldID: a.FieldID,
			UsedBy:  in.CompletedBy,
		})
		if err != nil {
			return nil, err
		}
	}
	done := s.now()
	if in.CompletedDate != nil {
		done = *in.CompletedDate
	}
	a.Status = entities.ActivityCompleted
	a.CompletedDate = &done
	if in.Cost != nil {
		a.Cost = *in.Cost
	}
	if in.Notes != "" {
		a.Notes = in.Notes
	}
	if err := s.r.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Generate rebuilds the crop's planned activities from its planting date.
func (s *Svc) Generate(ctx context.Context, cropID uint, uid string) (*service.GenerateResult, error) {
	crop, err := s.crops.FindByID(ctx, cropID, uid)
	if err != nil {
		return nil, err
	}
	if crop.PlantingDate == nil {
		return nil, badRequest("crop has no planting_date")
	}
	var field *entities.Field
	if crop.FieldID != nil {
		field, err = s.fields.FindByID(ctx, *crop.FieldID, uid)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	stages := s.planner.BuildStages(crop, *crop.PlantingDate)
	acts := s.planner.Expand(crop, field, stages)
	for i := range acts {
		acts[i].Farmer = uid
		if acts[i].ResourcesUsed == nil {
			acts[i].ResourcesUsed = []entities.ResourceUse{}
		}
	}
	removed, err := s.r.ReplaceGenerated(ctx, uid, crop.ID, acts)
	if err != nil {
		return nil, err
	}
	metrics.ActivitiesGenerated.Add(float64(len(acts)))
	s.log.Info("timeline generated",
		zap.Uint("crop_id", crop.ID), zap.Int("stages", len(stages)),
		zap.Int("activities", len(acts)), zap.Int64("replaced", removed))
	if acts == nil {
		acts = []entities.TimelineActivity{}
	}
	return &service.GenerateResult{CropID: crop.ID, Stages: stages, Activities: acts, Replaced: removed}, nil
}
