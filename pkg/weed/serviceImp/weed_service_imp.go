package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/metrics"
	"farmhub/pkg/store"
	"farmhub/pkg/weed/repository"
	"farmhub/pkg/weed/service"
)

type Svc struct {
	weeds  repository.WeedRepository
	issues repository.WeedIssueRepository
	log    *zap.Logger
	now    func() time.Time
}

func New(weeds repository.WeedRepository, issues repository.WeedIssueRepository, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	return &Svc{weeds: weeds, issues: issues, log: log, now: time.Now}
}

var _ service.WeedService = (*Svc)(nil)

func (s *Svc) CreateWeed(ctx context.Context, w *entities.Weed) (*entities.Weed, error) {
	if err := s.weeds.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Svc) GetWeed(ctx context.Context, id uint) (*entities.Weed, error) {
	return s.weeds.FindByID(ctx, id)
}

func (s *Svc) ListWeeds(ctx context.Context, search string, q store.ListQuery) ([]entities.Weed, store.Pagination, error) {
	return s.weeds.List(ctx, search, q)
}

func (s *Svc) UpdateWeed(ctx context.Context, w *entities.Weed) (*entities.Weed, error) {
	if err := s.weeds.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Svc) DeleteWeed(ctx context.Context, id uint) error { return s.weeds.Delete(ctx, id) }

func (s *Svc) UpsertWeed(ctx context.Context, w entities.Weed) (*entities.Weed, bool, error) {
	cur, err := s.weeds.FindByName(ctx, w.Name)
	if errors.Is(err, store.ErrNotFound) {
		if err := s.weeds.Create(ctx, &w); err != nil {
			return nil, false, err
		}
		return &w, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	w.ID, w.CreatedAt = cur.ID, cur.CreatedAt
	if err := s.weeds.Save(ctx, &w); err != nil {
		return nil, false, err
	}
	return &w, false, nil
}

// CreateIssue fills the weed name from the reference and links the issue to
// the last closed issue of the same weed on the same field.
func (s *Svc) CreateIssue(ctx context.Context, w *entities.WeedIssue) (*entities.WeedIssue, error) {
	if w.WeedID != nil {
		ref, err := s.weeds.FindByID(ctx, *w.WeedID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown weed %d", apierr.ErrBadRequest, *w.WeedID)
		}
		if err != nil {
			return nil, err
		}
		if w.WeedName == "" {
			w.WeedName = ref.Name
		}
	}
	now := s.now()
	if w.DetectionDate.IsZero() {
		w.DetectionDate = now
	}
	w.Status = entities.WeedReported
	w.StatusHistory = []entities.StatusChange{{Status: entities.WeedReported, ChangedBy: w.ReportedBy, ChangedAt: now}}
	w.Recurrence = entities.Recurrence{}
	prev, err := s.issues.LastClosed(ctx, w.Farmer, w.WeedName, w.FieldID)
	switch {
	case err == nil:
		w.Recurrence = entities.Recurrence{
			IsRecurrence:    true,
			RecurrenceCount: prev.Recurrence.RecurrenceCount + 1,
			PreviousIssueID: &prev.ID,
		}
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}
	if err := s.issues.Create(ctx, w); err != nil {
		return nil, err
	}
	metrics.WeedTransitions.WithLabelValues(string(w.Status)).Inc()
	return w, nil
}

func (s *Svc) GetIssue(ctx context.Context, id uint, uid string) (*entities.WeedIssue, error) {
	return s.issues.FindByID(ctx, id, uid)
}

func (s *Svc) ListIssues(ctx context.Context, uid string, q store.ListQuery) ([]entities.WeedIssue, store.Pagination, error) {
	return s.issues.List(ctx, uid, q)
}

func (s *Svc) UpdateIssue(ctx context.Context, w *entities.WeedIssue) (*entities.WeedIssue, error) {
	if err := s.issues.Save(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Svc) DeleteIssue(ctx context.Context, id uint, uid string) error {
	return s.issues.Delete(ctx, id, uid)
}

// transition loads the issue, applies fn and saves, counting the resulting
// status when it changed.
func (s *Svc) transition(ctx context.Context, id uint, uid string, fn func(w *entities.WeedIssue, now time.Time)) (*entities.WeedIssue, error) {
	w, err := s.issues.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	before := w.Status
	fn(w, s.now())
	if err := s.issues.Save(ctx, w); err != nil {
		return nil, err
	}
	if w.Status != before {
		metrics.WeedTransitions.WithLabelValues(string(w.Status)).Inc()
		s.log.Debug("weed issue transition",
			zap.Uint("issue_id", w.ID), zap.String("from", string(before)), zap.String("to", string(w.Status)))
	}
	return w, nil
}

func (s *Svc) UpdateStatus(ctx context.Context, id uint, uid string, in service.StatusInput) (*entities.WeedIssue, error) {
	return s.transition(ctx, id, uid, func(w *entities.WeedIssue, now time.Time) {
		w.UpdateStatus(in.Status, in.ChangedBy, in.Notes, now)
	})
}

func (s *Svc) AssignControlMethod(ctx context.Context, id uint, uid string, p entities.ControlPayload) (*entities.WeedIssue, error) {
	return s.transition(ctx, id, uid, func(w *entities.WeedIssue, now time.Time) {
		w.AssignControlMethod(p, now)
	})
}

func (s *Svc) AddApplication(ctx context.Context, id uint, uid string, app entities.ControlApplication) (*entities.WeedIssue, error) {
	return s.transition(ctx, id, uid, func(w *entities.WeedIssue, now time.Time) {
		w.AddControlApplication(app, now)
	})
}

func (s *Svc) AddMonitoring(ctx context.Context, id uint, uid string, rec entities.MonitoringRecord) (*entities.WeedIssue, error) {
	return s.transition(ctx, id, uid, func(w *entities.WeedIssue, now time.Time) {
		w.AddMonitoringRecord(rec, now)
	})
}

func (s *Svc) Resolve(ctx context.Context, id uint, uid string, in entities.ResolveInput) (*entities.WeedIssue, error) {
	return s.transition(ctx, id, uid, func(w *entities.WeedIssue, now time.Time) {
		w.Resolve(in, now)
	})
}

func (s *Svc) Stats(ctx context.Context, uid string) (service.Stats, error) {
	all, err := s.issues.All(ctx, uid, nil)
	if err != nil {
		return service.Stats{}, err
	}
	return service.ComputeStats(all), nil
}
