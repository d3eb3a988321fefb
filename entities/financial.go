package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinancialTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Farmer        string          `gorm:"index" json:"farmer"`
	Type          TransactionType `gorm:"index" json:"type" validate:"required,enum"`
	Category      string          `gorm:"index" json:"category" validate:"required"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(20,4)" json:"amount_paid"`
	PaymentStatus PaymentStatus   `gorm:"index" json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	Date          time.Time       `gorm:"index" json:"date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	CropID        *uint           `gorm:"index" json:"crop_id,omitempty"`
	FieldID       *uint           `gorm:"index" json:"field_id,omitempty"`
	Counterparty  string          `json:"counterparty"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RollPaymentStatus derives the payment status from what has been paid.
func (t *FinancialTransaction) RollPaymentStatus(now time.Time) {
	switch {
	case t.Amount.IsPositive() && t.AmountPaid.GreaterThanOrEqual(t.Amount):
		t.PaymentStatus = PaymentPaid
	case t.DueDate != nil && t.DueDate.Before(now):
		t.PaymentStatus = PaymentOverdue
	case t.AmountPaid.IsPositive():
		t.PaymentStatus = PaymentPartial
	default:
		t.PaymentStatus = PaymentPending
	}
}

func (t *FinancialTransaction) BeforeSave(*gorm.DB) error {
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	t.RollPaymentStatus(time.Now())
	return nil
}

type Budget struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	Farmer              string          `gorm:"index" json:"farmer"`
	Name                string          `json:"name" validate:"required"`
	Season              string          `json:"season"`
	StartDate           time.Time       `json:"start_date"`
	EndDate             time.Time       `json:"end_date"`
	Status              string          `gorm:"default:draft" json:"status" validate:"omitempty,oneof=draft active closed"`
	TotalPlannedExpense decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_planned_expense"`
	TotalActualExpense  decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_actual_expense"`
	TotalPlannedRevenue decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_planned_revenue"`
	TotalActualRevenue  decimal.Decimal `gorm:"type:decimal(20,4)" json:"total_actual_revenue"`
	VariancePercentage  float64         `json:"variance_percentage"`
	UtilizationRate     float64         `json:"utilization_rate"`
	ROI                 *float64        `json:"roi,omitempty"`

	Categories  []BudgetCategory `gorm:"serializer:json" json:"categories" validate:"dive"`
	CropBudgets []CropBudget     `gorm:"serializer:json" json:"crop_budgets" validate:"dive"`
	Alerts      []Alert          `gorm:"serializer:json" json:"alerts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BudgetCategory struct {
	Category      string          `json:"category" validate:"required"`
	PlannedAmount decimal.Decimal `json:"planned_amount"`
	ActualAmount  decimal.Decimal `json:"actual_amount"`
	Variance      decimal.Decimal `json:"variance"`
}

type CropBudget struct {
	CropID         uint            `json:"crop_id"`
	CropName       string          `json:"crop_name"`
	PlannedExpense decimal.Decimal `json:"planned_expense"`
	PlannedRevenue decimal.Decimal `json:"planned_revenue"`
	ActualRevenue  decimal.Decimal `json:"actual_revenue"`
	Variance       decimal.Decimal `json:"variance"`
}

const (
	AlertBudgetOverspend     = "budget_overspend"
	AlertRevenueShortfall    = "revenue_shortfall"
	AlertCategoryOverspend   = "category_overspend"
	overspendThresholdPct    = 10
	shortfallThresholdPct    = 10
	categoryThresholdPct     = 20
	categoryHighThresholdPct = 50
)

var hundred = decimal.NewFromInt(100)

// pct returns (a-b)/b*100, or 0 when b is zero.
func pct(a, b decimal.Decimal) float64 {
	if b.IsZero() {
		return 0
	}
	return a.Sub(b).Div(b).Mul(hundred).InexactFloat64()
}

// CalculateVariances recomputes actual totals and the derived ratios.
func (b *Budget) CalculateVariances() {
	expense := decimal.Zero
	planned := decimal.Zero
	for i := range b.Categories {
		c := &b.Categories[i]
		c.Variance = c.ActualAmount.Sub(c.PlannedAmount)
		expense = expense.Add(c.ActualAmount)
		planned = planned.Add(c.PlannedAmount)
	}
	revenue := decimal.Zero
	plannedRevenue := decimal.Zero
	for i := range b.CropBudgets {
		cb := &b.CropBudgets[i]
		cb.Variance = cb.ActualRevenue.Sub(cb.PlannedRevenue)
		revenue = revenue.Add(cb.ActualRevenue)
		plannedRevenue = plannedRevenue.Add(cb.PlannedRevenue)
	}
	b.TotalActualExpense = expense
	b.TotalActualRevenue = revenue
	if len(b.Categories) > 0 {
		b.TotalPlannedExpense = planned
	}
	if len(b.CropBudgets) > 0 {
		b.TotalPlannedRevenue = plannedRevenue
	}

	b.VariancePercentage = pct(b.TotalActualExpense, b.TotalPlannedExpense)
	b.UtilizationRate = 0
	if !b.TotalPlannedExpense.IsZero() {
		b.UtilizationRate = b.TotalActualExpense.Div(b.TotalPlannedExpense).Mul(hundred).InexactFloat64()
	}
	b.ROI = nil
	if b.TotalActualExpense.IsPositive() && b.TotalActualRevenue.IsPositive() {
		roi := pct(b.TotalActualRevenue, b.TotalActualExpense)
		b.ROI = &roi
	}
}

// GenerateAlerts rebuilds Alerts from the overspend, shortfall and
// per-category rules, keeping acknowledgement of alerts that persist.
func (b *Budget) GenerateAlerts(now time.Time) []Alert {
	next := []Alert{}
	if b.VariancePercentage > overspendThresholdPct {
		next = append(next, newAlert(AlertBudgetOverspend, "", AlertHigh,
			fmt.Sprintf("Expenses are %.1f%% over plan", b.VariancePercentage), now))
	}
	if b.TotalPlannedRevenue.IsPositive() {
		shortfall := -pct(b.TotalActualRevenue, b.TotalPlannedRevenue)
		if shortfall > shortfallThresholdPct {
			next = append(next, newAlert(AlertRevenueShortfall, "", AlertMedium,
				fmt.Sprintf("Revenue is %.1f%% below plan", shortfall), now))
		}
	}
	for _, c := range b.Categories {
		if c.PlannedAmount.IsZero() {
			if c.ActualAmount.IsPositive() {
				next = append(next, newAlert(AlertCategoryOverspend, c.Category, AlertHigh,
					fmt.Sprintf("%s spending has no plan", c.Category), now))
			}
			continue
		}
		over := pct(c.ActualAmount, c.PlannedAmount)
		if over <= categoryThresholdPct {
			continue
		}
		sev := AlertMedium
		if over > categoryHighThresholdPct {
			sev = AlertHigh
		}
		next = append(next, newAlert(AlertCategoryOverspend, c.Category, sev,
			fmt.Sprintf("%s spending is %.1f%% over plan", c.Category, over), now))
	}
	b.Alerts = mergeAlerts(b.Alerts, next)
	return b.Alerts
}

func (b *Budget) BeforeSave(*gorm.DB) error {
	b.CalculateVariances()
	b.GenerateAlerts(time.Now())
	return nil
}
