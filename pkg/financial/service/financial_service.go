package service

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"farmhub/entities"
	"farmhub/pkg/export"
	"farmhub/pkg/store"
)

type FinancialService interface {
	CreateTransaction(ctx context.Context, t *entities.FinancialTransaction) (*entities.FinancialTransaction, error)
	GetTransaction(ctx context.Context, id uint, uid string) (*entities.FinancialTransaction, error)
	ListTransactions(ctx context.Context, uid string, q store.ListQuery) ([]entities.FinancialTransaction, store.Pagination, error)
	UpdateTransaction(ctx context.Context, t *entities.FinancialTransaction) (*entities.FinancialTransaction, error)
	DeleteTransaction(ctx context.Context, id uint, uid string) error
	Summary(ctx context.Context, uid string, q store.ListQuery) (Summary, error)
	Export(ctx context.Context, uid string, q store.ListQuery) (export.Table, error)

	CreateBudget(ctx context.Context, b *entities.Budget) (*entities.Budget, error)
	GetBudget(ctx context.Context, id uint, uid string) (*entities.Budget, error)
	ListBudgets(ctx context.Context, uid string, q store.ListQuery) ([]entities.Budget, store.Pagination, error)
	UpdateBudget(ctx context.Context, b *entities.Budget) (*entities.Budget, error)
	DeleteBudget(ctx context.Context, id uint, uid string) error
	RecalculateBudget(ctx context.Context, id uint, uid string) (*entities.Budget, error)
	SyncBudget(ctx context.Context, id uint, uid string) (*entities.Budget, error)
	AcknowledgeBudgetAlert(ctx context.Context, id uint, uid, alertID string) (*entities.Budget, error)
}

type CategoryTotal struct {
	Type     entities.TransactionType `json:"type"`
	Category string                   `json:"category"`
	Total    decimal.Decimal          `json:"total"`
	Count    int                      `json:"count"`
}

type MonthTotal struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
	// Outstanding is what is still unpaid on transactions not marked paid.
	Outstanding decimal.Decimal `json:"outstanding"`
	ByCategory  []CategoryTotal `json:"by_category"`
	Monthly     []MonthTotal    `json:"monthly"`
}

// Summarize totals txs by type, category and calendar month. Categories are
// sorted by descending total; months ascending.
func Summarize(txs []entities.FinancialTransaction) Summary {
	sum := Summary{ByCategory: []CategoryTotal{}, Monthly: []MonthTotal{}}
	cats := map[string]*CategoryTotal{}
	months := map[string]*MonthTotal{}
	for _, t := range txs {
		key := string(t.Type) + "/" + strings.ToLower(t.Category)
		ct, ok := cats[key]
		if !ok {
			ct = &CategoryTotal{Type: t.Type, Category: t.Category}
			cats[key] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++

		m := t.Date.Format("2006-01")
		mt, ok := months[m]
		if !ok {
			mt = &MonthTotal{Month: m}
			months[m] = mt
		}
		switch t.Type {
		case entities.TxIncome:
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
			mt.Income = mt.Income.Add(t.Amount)
		case entities.TxExpense:
			sum.TotalExpense = sum.TotalExpense.Add(t.Amount)
			mt.Expense = mt.Expense.Add(t.Amount)
		}
		if t.PaymentStatus != entities.PaymentPaid && t.Amount.GreaterThan(t.AmountPaid) {
			sum.Outstanding = sum.Outstanding.Add(t.Amount.Sub(t.AmountPaid))
		}
	}
	sum.Net = sum.TotalIncome.Sub(sum.TotalExpense)
	for _, ct := range cats {
		sum.ByCategory = append(sum.ByCategory, *ct)
	}
	sort.Slice(sum.ByCategory, func(i, j int) bool {
		a, b := sum.ByCategory[i], sum.ByCategory[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Category < b.Category
	})
	for _, mt := range months {
		mt.Net = mt.Income.Sub(mt.Expense)
		sum.Monthly = append(sum.Monthly, *mt)
	}
	sort.Slice(sum.Monthly, func(i, j int) bool { return sum.Monthly[i].Month < sum.Monthly[j].Month })
	return sum
}

// SyncActuals sets category actuals from expense transactions and crop
// actuals from income transactions. Expense categories missing from the
// budget are appended with a zero plan.
func SyncActuals(b *entities.Budget, txs []entities.FinancialTransaction) {
	expense := map[string]decimal.Decimal{}
	var order []string
	income := map[uint]decimal.Decimal{}
	for _, t := range txs {
		switch t.Type {
		case entities.TxExpense:
			k := strings.ToLower(strings.TrimSpace(t.Category))
			if _, ok := expense[k]; !ok {
				order = append(order, t.Category)
			}
			expense[k] = expense[k].Add(t.Amount)
		case entities.TxIncome:
			if t.CropID != nil {
				income[*t.CropID] = income[*t.CropID].Add(t.Amount)
			}
		}
	}
	seen := map[string]bool{}
	for i := range b.Categories {
		k := strings.ToLower(strings.TrimSpace(b.Categories[i].Category))
		b.Categories[i].ActualAmount = expense[k]
		seen[k] = true
	}
	for _, c := range order {
		k := strings.ToLower(strings.TrimSpace(c))
		if !seen[k] {
			b.Categories = append(b.Categories, entities.BudgetCategory{Category: c, ActualAmount: expense[k]})
			seen[k] = true
		}
	}
	for i := range b.CropBudgets {
		b.CropBudgets[i].ActualRevenue = income[b.CropBudgets[i].CropID]
	}
}

var ExportHeader = []string{
	"ID", "Date", "Type", "Category", "Amount", "Amount Paid", "Payment Status",
	"Payment Method", "Due Date", "Counterparty", "Reference", "Description",
}

func ExportTable(txs []entities.FinancialTransaction) export.Table {
	t := export.Table{Sheet: "Transactions", Header: ExportHeader, Rows: make([][]any, 0, len(txs))}
	for _, x := range txs {
		t.Rows = append(t.Rows, []any{
			x.ID, x.Date, string(x.Type), x.Category, x.Amount.InexactFloat64(), x.AmountPaid.InexactFloat64(),
			string(x.PaymentStatus), x.PaymentMethod, x.DueDate, x.Counterparty, x.Reference, x.Description,
		})
	}
	return t
}
