package serviceImp

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/entities"
	"farmhub/internal/testutil"
	"farmhub/pkg/apierr"
	"farmhub/pkg/financial/repositoryImp"
	"farmhub/pkg/store"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func newSvc(t *testing.T) *Svc {
	db := testutil.DB(t)
	return New(repositoryImp.NewTransactions(db), repositoryImp.NewBudgets(db), nil)
}

func addTx(t *testing.T, s *Svc, tx entities.FinancialTransaction) *entities.FinancialTransaction {
	t.Helper()
	tx.Farmer = "u1"
	out, err := s.CreateTransaction(context.Background(), &tx)
	require.NoError(t, err)
	return out
}

func TestTransactionPaymentRollover(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	past := time.Now().Add(-48 * time.Hour)

	tx := addTx(t, s, entities.FinancialTransaction{Type: entities.TxExpense, Category: "seed", Amount: d(100), DueDate: &past})
	assert.Equal(t, entities.PaymentOverdue, tx.PaymentStatus)

	tx.AmountPaid = d(100)
	tx, err := s.UpdateTransaction(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, entities.PaymentPaid, tx.PaymentStatus)

	_, err = s.CreateTransaction(ctx, &entities.FinancialTransaction{Farmer: "u1", Type: entities.TxIncome, Category: "x", Amount: d(0)})
	assert.ErrorIs(t, err, apierr.ErrBadRequest)
}

func TestSyncBudget(t *testing.T) {
	s := newSvc(t)
	ctx := context.Background()
	crop := uint(7)
	addTx(t, s, entities.FinancialTransaction{Type: entities.TxExpense, Category: "seed", Amount: d(300), Date: at("2025-05-10T08:00:00Z")})
	addTx(t, s, entities.FinancialTransaction{Type: entities.TxExpense, Category: "fuel", Amount: d(50), Date: at("2025-05-31T14:00:00Z")})
	addTx(t, s, entities.FinancialTransaction{Type: entities.TxExpense, Category: "seed", Amount: d(999), Date: at("2025-06-02T08:00:00Z")})
	addTx(t, s, entities.FinancialTransaction{Type: entities.TxIncome, Category: "sales", Amount: d(1200), CropID: &crop, Date: at("2025-05-20T08:00:00Z")})

	b, err := s.CreateBudget(ctx, &entities.Budget{
		Farmer: "u1", Name: "Long rains", StartDate: at("2025-05-01T00:00:00Z"), EndDate: at("2025-05-31T00:00:00Z"),
		Categories:  []entities.BudgetCategory{{Category: "seed", PlannedAmount: d(200)}},
		CropBudgets: []entities.CropBudget{{CropID: crop, CropName: "maize", PlannedRevenue: d(2000)}},
	})
	require.NoError(t, err)
	require.Len(t, b.Alerts, 1)
	assert.Equal(t, entities.AlertRevenueShortfall, b.Alerts[0].Type)
	shortfall := b.Alerts[0].ID

	b, err = s.SyncBudget(ctx, b.ID, "u1")
	require.NoError(t, err)
	require.Len(t, b.Categories, 2)
	assert.Equal(t, "300", b.Categories[0].ActualAmount.String())
	assert.Equal(t, "fuel", b.Categories[1].Category)
	assert.Equal(t, "350", b.TotalActualExpense.String())
	assert.Equal(t, "1200", b.TotalActualRevenue.String())
	assert.InDelta(t, 75.0, b.VariancePercentage, 1e-9)
	require.NotNil(t, b.ROI)
	assert.InDelta(t, 242.857, *b.ROI, 1e-3)

	byKey := map[string]entities.AlertSeverity{}
	for _, a := range b.Alerts {
		byKey[a.Type+"/"+a.Key] = a.Severity
		if a.Type == entities.AlertRevenueShortfall {
			assert.Equal(t, shortfall, a.ID)
		}
	}
	assert.Equal(t, map[string]entities.AlertSeverity{
		entities.AlertBudgetOverspend + "/":       entities.AlertHigh,
		entities.AlertRevenueShortfall + "/":      entities.AlertMedium,
		entities.AlertCategoryOverspend + "/seed": entities.AlertMedium,
		entities.AlertCategoryOverspend + "/fuel": entities.AlertHigh,
	}, byKey)

	var overspend string
	for _, a := range b.Alerts {
		if a.Type == entities.AlertBudgetOverspend {
			overspend = a.ID
		}
	}
	_, err = s.AcknowledgeBudgetAlert(ctx, b.ID, "u1", overspend)
	require.NoError(t, err)
	b, err = s.SyncBudget(ctx, b.ID, "u1")
	require.NoError(t, err)
	for _, a := range b.Alerts {
		assert.Equal(t, a.ID == overspend, a.Acknowledged, a.Type)
	}

	_, err = s.AcknowledgeBudgetAlert(ctx, b.ID, "u1", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.SyncBudget(ctx, b.ID, "u2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEndOfDay(t *testing.T) {
	nairobi := time.FixedZone("EAT", 3*60*60)
	local := time.Date(2025, 5, 31, 0, 0, 0, 0, nairobi)
	end := endOfDay(local)
	assert.Equal(t, time.Date(2025, 5, 31, 23, 59, 59, 999999999, nairobi), end)
	assert.True(t, end.After(time.Date(2025, 5, 31, 20, 0, 0, 0, time.UTC)))

	assert.Equal(t, at("2025-05-31T23:59:59.999999999Z"), endOfDay(at("2025-05-31T00:00:00Z")))

	timed := at("2025-05-31T12:30:00Z")
	assert.Equal(t, timed, endOfDay(timed))
}

func TestBudgetWindowValidation(t *testing.T) {
	s := newSvc(t)
	_, err := s.CreateBudget(context.Background(), &entities.Budget{
		Farmer: "u1", Name: "bad", StartDate: at("2025-05-01T00:00:00Z"), EndDate: at("2025-04-01T00:00:00Z"),
	})
	assert.ErrorIs(t, err, apierr.ErrBadRequest)
}
