package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/export"
	"farmhub/pkg/metrics"
	"farmhub/pkg/resource/repository"
	"farmhub/pkg/resource/service"
	"farmhub/pkg/store"
)

// ErrAlertNotFound is returned when acknowledging an unknown alert id.
var ErrAlertNotFound = fmt.Errorf("alert %w", store.ErrNotFound)

type Svc struct {
	r   repository.ResourceRepository
	log *zap.Logger
	now func() time.Time
}

func New(r repository.ResourceRepository, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	return &Svc{r: r, log: log, now: time.Now}
}

var _ service.ResourceService = (*Svc)(nil)

func countAlerts(r *entities.Resource) {
	for _, a := range r.Alerts {
		metrics.AlertsGenerated.WithLabelValues("resource", a.Type).Inc()
	}
}

func (s *Svc) Create(ctx context.Context, r *entities.Resource) (*entities.Resource, error) {
	r.UsedQuantity = 0
	r.UsageHistory = []entities.UsageEntry{}
	r.MonthlyUsage = []entities.UsageCostBucket{}
	r.Alerts = nil
	if err := s.r.Create(ctx, r); err != nil {
		return nil, err
	}
	countAlerts(r)
	return r, nil
}

func (s *Svc) Get(ctx context.Context, id uint, uid string) (*entities.Resource, error) {
	return s.r.FindByID(ctx, id, uid)
}

func (s *Svc) List(ctx context.Context, uid string, q store.ListQuery) ([]entities.Resource, store.Pagination, service.Stats, error) {
	items, page, err := s.r.List(ctx, uid, q)
	if err != nil {
		return nil, page, service.Stats{}, err
	}
	all, err := s.r.All(ctx, uid, nil)
	if err != nil {
		return nil, page, service.Stats{}, err
	}
	return items, page, service.ComputeStats(all), nil
}

func (s *Svc) Update(ctx context.Context, r *entities.Resource) (*entities.Resource, error) {
	if r.UsedQuantity > r.TotalQuantity {
		return nil, fmt.Errorf("%w: used quantity exceeds total", apierr.ErrBadRequest)
	}
	if err := s.r.Save(ctx, r); err != nil {
		return nil, err
	}
	countAlerts(r)
	return r, nil
}

func (s *Svc) Delete(ctx context.Context, id uint, uid string) error {
	return s.r.Delete(ctx, id, uid)
}

func (s *Svc) Use(ctx context.Context, id uint, uid string, in entities.UseInput) (*entities.Resource, *entities.UsageEntry, error) {
	r, err := s.r.FindByID(ctx, id, uid)
	if err != nil {
		return nil, nil, err
	}
	entry, err := r.Use(in, s.now())
	if err != nil {
		metrics.ResourceUsage.WithLabelValues("insufficient").Inc()
		return nil, nil, err
	}
	if err := s.r.Save(ctx, r); err != nil {
		return nil, nil, err
	}
	metrics.ResourceUsage.WithLabelValues("ok").Inc()
	countAlerts(r)
	return r, entry, nil
}

func (s *Svc) UseMany(ctx context.Context, uid string, uses []entities.ResourceUse, in entities.UseInput) ([]entities.UsageEntry, error) {
	out := []entities.UsageEntry{}
	if len(uses) == 0 {
		return out, nil
	}
	now := s.now()
	err := s.r.Tx(ctx, func(tx repository.ResourceRepository) error {
		for _, u := range uses {
			r, err := tx.FindByID(ctx, u.ResourceID, uid)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%w: unknown resource %d", apierr.ErrBadRequest, u.ResourceID)
			}
			if err != nil {
				return err
			}
			req := in
			req.Quantity = u.Quantity
			entry, err := r.Use(req, now)
			if err != nil {
				metrics.ResourceUsage.WithLabelValues("insufficient").Inc()
				return err
			}
			if err := tx.Save(ctx, r); err != nil {
				return err
			}
			out = append(out, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ResourceUsage.WithLabelValues("ok").Add(float64(len(out)))
	return out, nil
}

func (s *Svc) AddStock(ctx context.Context, id uint, uid string, in entities.StockInput) (*entities.Resource, error) {
	r, err := s.r.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	r.AddStock(in)
	if err := s.r.Save(ctx, r); err != nil {
		return nil, err
	}
	s.log.Debug("stock added", zap.Uint("resource_id", r.ID), zap.Float64("quantity", in.Quantity))
	return r, nil
}

func alertKeys(as []entities.Alert) map[string]bool {
	m := make(map[string]bool, len(as))
	for _, a := range as {
		m[a.Type+"/"+a.Key] = true
	}
	return m
}

func sameAlerts(a, b []entities.Alert) bool {
	if len(a) != len(b) {
		return false
	}
	ka := alertKeys(a)
	for k := range alertKeys(b) {
		if !ka[k] {
			return false
		}
	}
	return true
}

// Alerts re-evaluates every resource at the current time so date-based alerts
// show up without waiting for the next edit. Resources whose alert set moved
// are saved so the listed ids can be acknowledged.
func (s *Svc) Alerts(ctx context.Context, uid string, includeAcknowledged bool) ([]service.ResourceAlert, error) {
	all, err := s.r.All(ctx, uid, nil)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := []service.ResourceAlert{}
	for i := range all {
		r := &all[i]
		prev := append([]entities.Alert(nil), r.Alerts...)
		if !sameAlerts(prev, r.GenerateAlerts(now)) {
			if err := s.r.Save(ctx, r); err != nil {
				return nil, err
			}
		}
		for _, a := range r.Alerts {
			if a.Acknowledged && !includeAcknowledged {
				continue
			}
			out = append(out, service.ResourceAlert{ResourceID: r.ID, ResourceName: r.Name, Alert: a})
		}
	}
	return out, nil
}

func (s *Svc) AcknowledgeAlert(ctx context.Context, id uint, uid, alertID string) (*entities.Resource, error) {
	r, err := s.r.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	if !entities.AcknowledgeAlert(r.Alerts, alertID, s.now()) {
		return nil, ErrAlertNotFound
	}
	if err := s.r.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Svc) Export(ctx context.Context, uid string, q store.ListQuery) (export.Table, error) {
	all, err := s.r.All(ctx, uid, q.Filters)
	if err != nil {
		return export.Table{}, err
	}
	return service.ExportTable(all), nil
}
