package serviceImp

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/export"
	"farmhub/pkg/financial/repository"
	"farmhub/pkg/financial/service"
	"farmhub/pkg/metrics"
	"farmhub/pkg/store"
)

var ErrAlertNotFound = fmt.Errorf("alert %w", store.ErrNotFound)

type Svc struct {
	txs     repository.TransactionRepository
	budgets repository.BudgetRepository
	log     *zap.Logger
	now     func() time.Time
}

func New(txs repository.TransactionRepository, budgets repository.BudgetRepository, log *zap.Logger) *Svc {
	if log == nil {
		log = zap.NewNop()
	}
	return &Svc{txs: txs, budgets: budgets, log: log, now: time.Now}
}

var _ service.FinancialService = (*Svc)(nil)

func checkAmounts(t *entities.FinancialTransaction) error {
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apierr.ErrBadRequest)
	}
	if t.AmountPaid.IsNegative() {
		return fmt.Errorf("%w: amount_paid must not be negative", apierr.ErrBadRequest)
	}
	return nil
}

func (s *Svc) CreateTransaction(ctx context.Context, t *entities.FinancialTransaction) (*entities.FinancialTransaction, error) {
	if err := checkAmounts(t); err != nil {
		return nil, err
	}
	if err := s.txs.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Svc) GetTransaction(ctx context.Context, id uint, uid string) (*entities.FinancialTransaction, error) {
	return s.txs.FindByID(ctx, id, uid)
}

func (s *Svc) ListTransactions(ctx context.Context, uid string, q store.ListQuery) ([]entities.FinancialTransaction, store.Pagination, error) {
	if q.Order == "" {
		q.Order = "date DESC, id DESC"
	}
	return s.txs.List(ctx, uid, q)
}

func (s *Svc) UpdateTransaction(ctx context.Context, t *entities.FinancialTransaction) (*entities.FinancialTransaction, error) {
	if err := checkAmounts(t); err != nil {
		return nil, err
	}
	if err := s.txs.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Svc) DeleteTransaction(ctx context.Context, id uint, uid string) error {
	return s.txs.Delete(ctx, id, uid)
}

func (s *Svc) Summary(ctx context.Context, uid string, q store.ListQuery) (service.Summary, error) {
	all, err := s.txs.Find(ctx, uid, q)
	if err != nil {
		return service.Summary{}, err
	}
	return service.Summarize(all), nil
}

func (s *Svc) Export(ctx context.Context, uid string, q store.ListQuery) (export.Table, error) {
	q.Order = "date ASC, id ASC"
	all, err := s.txs.Find(ctx, uid, q)
	if err != nil {
		return export.Table{}, err
	}
	return service.ExportTable(all), nil
}

func checkWindow(b *entities.Budget) error {
	if !b.StartDate.IsZero() && !b.EndDate.IsZero() && b.EndDate.Before(b.StartDate) {
		return fmt.Errorf("%w: end_date before start_date", apierr.ErrBadRequest)
	}
	return nil
}

func countAlerts(b *entities.Budget) {
	for _, a := range b.Alerts {
		metrics.AlertsGenerated.WithLabelValues("budget", a.Type).Inc()
	}
}

func (s *Svc) CreateBudget(ctx context.Context, b *entities.Budget) (*entities.Budget, error) {
	if err := checkWindow(b); err != nil {
		return nil, err
	}
	b.Alerts = nil
	if err := s.budgets.Create(ctx, b); err != nil {
		return nil, err
	}
	countAlerts(b)
	return b, nil
}

func (s *Svc) GetBudget(ctx context.Context, id uint, uid string) (*entities.Budget, error) {
	return s.budgets.FindByID(ctx, id, uid)
}

func (s *Svc) ListBudgets(ctx context.Context, uid string, q store.ListQuery) ([]entities.Budget, store.Pagination, error) {
	return s.budgets.List(ctx, uid, q)
}

func (s *Svc) UpdateBudget(ctx context.Context, b *entities.Budget) (*entities.Budget, error) {
	if err := checkWindow(b); err != nil {
		return nil, err
	}
	if err := s.budgets.Save(ctx, b); err != nil {
		return nil, err
	}
	countAlerts(b)
	return b, nil
}

func (s *Svc) DeleteBudget(ctx context.Context, id uint, uid string) error {
	return s.budgets.Delete(ctx, id, uid)
}

// RecalculateBudget re-runs the variance and alert rules on the stored figures.
func (s *Svc) RecalculateBudget(ctx context.Context, id uint, uid string) (*entities.Budget, error) {
	b, err := s.budgets.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	return s.UpdateBudget(ctx, b)
}

// SyncBudget pulls actuals from the transactions dated inside the budget window.
func (s *Svc) SyncBudget(ctx context.Context, id uint, uid string) (*entities.Budget, error) {
	b, err := s.budgets.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	var from, to *time.Time
	if !b.StartDate.IsZero() {
		from = &b.StartDate
	}
	if !b.EndDate.IsZero() {
		end := endOfDay(b.EndDate)
		to = &end
	}
	txs, err := s.txs.Find(ctx, uid, store.ListQuery{Scopes: []func(*gorm.DB) *gorm.DB{store.Between("date", from, to)}})
	if err != nil {
		return nil, err
	}
	service.SyncActuals(b, txs)
	s.log.Debug("budget synced", zap.Uint("budget_id", b.ID), zap.Int("transactions", len(txs)))
	return s.UpdateBudget(ctx, b)
}

// endOfDay widens a date-only end (midnight in its own location) to the last
// instant of that day.
func endOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return t
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (s *Svc) AcknowledgeBudgetAlert(ctx context.Context, id uint, uid, alertID string) (*entities.Budget, error) {
	b, err := s.budgets.FindByID(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	if !entities.AcknowledgeAlert(b.Alerts, alertID, s.now()) {
		return nil, ErrAlertNotFound
	}
	if err := s.budgets.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
