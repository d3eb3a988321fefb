package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestRollPaymentStatus(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	cases := []struct {
		name string
		tx   FinancialTransaction
		want PaymentStatus
	}{
		{"nothing paid", FinancialTransaction{Amount: d(100)}, PaymentPending},
		{"partly paid", FinancialTransaction{Amount: d(100), AmountPaid: d(40)}, PaymentPartial},
		{"fully paid", FinancialTransaction{Amount: d(100), AmountPaid: d(100)}, PaymentPaid},
		{"paid beats overdue", FinancialTransaction{Amount: d(100), AmountPaid: d(120), DueDate: &past}, PaymentPaid},
		{"overdue", FinancialTransaction{Amount: d(100), AmountPaid: d(40), DueDate: &past}, PaymentOverdue},
		{"not yet due", FinancialTransaction{Amount: d(100), DueDate: &future}, PaymentPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.tx.RollPaymentStatus(now)
			assert.Equal(t, tc.want, tc.tx.PaymentStatus)
		})
	}
}

func TestBudgetVariances(t *testing.T) {
	b := &Budget{
		Categories: []BudgetCategory{
			{Category: "seed", PlannedAmount: d(100), ActualAmount: d(130)},
			{Category: "labor", PlannedAmount: d(100), ActualAmount: d(90)},
		},
		CropBudgets: []CropBudget{{CropName: "maize", PlannedRevenue: d(500), ActualRevenue: d(330)}},
	}
	b.CalculateVariances()
	assert.True(t, b.TotalPlannedExpense.Equal(d(200)))
	assert.True(t, b.TotalActualExpense.Equal(d(220)))
	assert.InDelta(t, 10.0, b.VariancePercentage, 1e-9)
	assert.InDelta(t, 110.0, b.UtilizationRate, 1e-9)
	require.NotNil(t, b.ROI)
	assert.InDelta(t, 50.0, *b.ROI, 1e-9)
	assert.True(t, b.Categories[0].Variance.Equal(d(30)))
	assert.True(t, b.CropBudgets[0].Variance.Equal(d(-170)))
}

func TestBudgetROIUnsetWithoutExpense(t *testing.T) {
	b := &Budget{CropBudgets: []CropBudget{{PlannedRevenue: d(10), ActualRevenue: d(50)}}}
	b.CalculateVariances()
	assert.Nil(t, b.ROI)
}

func TestBudgetAlerts(t *testing.T) {
	now := time.Now()
	b := &Budget{
		Categories: []BudgetCategory{
			{Category: "seed", PlannedAmount: d(100), ActualAmount: d(160)},
			{Category: "fuel", PlannedAmount: d(100), ActualAmount: d(125)},
			{Category: "labor", PlannedAmount: d(100), ActualAmount: d(100)},
		},
		CropBudgets: []CropBudget{{PlannedRevenue: d(1000), ActualRevenue: d(800)}},
	}
	b.CalculateVariances()
	alerts := b.GenerateAlerts(now)

	byKey := map[string]Alert{}
	for _, a := range alerts {
		byKey[a.Type+"/"+a.Key] = a
	}
	require.Len(t, byKey, 4)
	assert.Equal(t, AlertHigh, byKey[AlertBudgetOverspend+"/"].Severity)
	assert.Equal(t, AlertMedium, byKey[AlertRevenueShortfall+"/"].Severity)
	assert.Equal(t, AlertHigh, byKey[AlertCategoryOverspend+"/seed"].Severity)
	assert.Equal(t, AlertMedium, byKey[AlertCategoryOverspend+"/fuel"].Severity)

	seed := byKey[AlertCategoryOverspend+"/seed"]
	require.True(t, AcknowledgeAlert(b.Alerts, seed.ID, now))
	b.GenerateAlerts(now.Add(time.Hour))
	for _, a := range b.Alerts {
		if a.Key == "seed" {
			assert.True(t, a.Acknowledged)
			assert.Equal(t, seed.ID, a.ID)
		} else {
			assert.False(t, a.Acknowledged)
		}
	}
}

func TestBudgetAlertsUnplannedCategory(t *testing.T) {
	b := &Budget{Categories: []BudgetCategory{
		{Category: "seed", PlannedAmount: d(100), ActualAmount: d(100)},
		{Category: "fuel", ActualAmount: d(40)},
		{Category: "tools"},
	}}
	b.CalculateVariances()
	alerts := b.GenerateAlerts(time.Now())
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertCategoryOverspend, alerts[0].Type)
	assert.Equal(t, "fuel", alerts[0].Key)
	assert.Equal(t, AlertHigh, alerts[0].Severity)
}

func TestBudgetNoShortfallWithoutPlannedRevenue(t *testing.T) {
	b := &Budget{}
	b.CalculateVariances()
	assert.Empty(t, b.GenerateAlerts(time.Now()))
}
