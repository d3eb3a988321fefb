package controllerImp

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/entities"
	"farmhub/internal/testutil"
	"farmhub/pkg/financial/repositoryImp"
	"farmhub/pkg/financial/service"
	"farmhub/pkg/financial/serviceImp"
	"farmhub/pkg/request"
)

func setup(t *testing.T) *echo.Echo {
	db := testutil.DB(t)
	ctrl := New(serviceImp.New(repositoryImp.NewTransactions(db), repositoryImp.NewBudgets(db), nil))
	e := testutil.Echo()
	g := e.Group("/financial")
	g.GET("", ctrl.ListTransactions)
	g.POST("", ctrl.CreateTransaction)
	g.GET("/summary", ctrl.Summary)
	g.GET("/export/csv", ctrl.ExportCSV)
	g.GET("/export/xlsx", ctrl.ExportXLSX)
	g.GET("/budgets", ctrl.ListBudgets)
	g.POST("/budgets", ctrl.CreateBudget)
	g.GET("/budgets/:id", ctrl.GetBudget)
	g.PUT("/budgets/:id", ctrl.UpdateBudget)
	g.DELETE("/budgets/:id", ctrl.DeleteBudget)
	g.POST("/budgets/:id/recalculate", ctrl.RecalculateBudget)
	g.POST("/budgets/:id/sync", ctrl.SyncBudget)
	g.POST("/budgets/:id/alerts/:alertId/acknowledge", ctrl.AcknowledgeBudgetAlert)
	g.GET("/:id", ctrl.GetTransaction)
	g.PUT("/:id", ctrl.UpdateTransaction)
	g.DELETE("/:id", ctrl.DeleteTransaction)
	return e
}

func TestTransactionEndpoints(t *testing.T) {
	e := setup(t)
	for _, body := range []map[string]any{
		{"type": "income", "category": "sales", "amount": "1500.50", "amount_paid": 1500.5, "date": "2025-04-02T00:00:00Z"},
		{"type": "expense", "category": "seed", "amount": 400, "amount_paid": 100, "date": "2025-04-05T00:00:00Z"},
		{"type": "expense", "category": "labor", "amount": 250, "date": "2025-05-01T00:00:00Z"},
	} {
		testutil.Status(t, http.StatusCreated, testutil.Do(t, e, http.MethodPost, "/financial", "u1", body))
	}
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/financial", "u1", map[string]any{"type": "gift", "category": "x", "amount": 1}))
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/financial", "u1", map[string]any{"type": "income", "category": "x", "amount": -1}))

	rec := testutil.Do(t, e, http.MethodGet, "/financial?type=expense", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	page := testutil.Decode[request.Page[entities.FinancialTransaction]](t, rec)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "labor", page.Items[0].Category)
	assert.Equal(t, entities.PaymentPartial, page.Items[1].PaymentStatus)

	rec = testutil.Do(t, e, http.MethodGet, "/financial?from=2025-04-01&to=2025-04-30", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Len(t, testutil.Decode[request.Page[entities.FinancialTransaction]](t, rec).Items, 2)
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodGet, "/financial?from=April", "u1", nil))

	rec = testutil.Do(t, e, http.MethodGet, "/financial/summary", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	sum := testutil.Decode[service.Summary](t, rec)
	assert.Equal(t, "1500.5", sum.TotalIncome.String())
	assert.Equal(t, "850.5", sum.Net.String())
	assert.Len(t, sum.Monthly, 2)

	id := page.Items[1].ID
	rec = testutil.Do(t, e, http.MethodPut, fmt.Sprintf("/financial/%d", id), "u1", map[string]any{"amount_paid": 400})
	testutil.Status(t, http.StatusOK, rec)
	assert.Equal(t, entities.PaymentPaid, testutil.Decode[entities.FinancialTransaction](t, rec).PaymentStatus)

	rec = testutil.Do(t, e, http.MethodGet, "/financial/export/csv", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(service.ExportHeader, ","), lines[0])
	assert.Contains(t, lines[1], "2025-04-02,income,sales,1500.5")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "transactions.csv")

	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodGet, fmt.Sprintf("/financial/%d", id), "u2", nil))
}

func TestBudgetEndpoints(t *testing.T) {
	e := setup(t)
	rec := testutil.Do(t, e, http.MethodPost, "/financial/budgets", "u1", map[string]any{
		"name": "Season A", "status": "active",
		"total_planned_expense": 1000,
		"categories": []map[string]any{
			{"category": "seed", "planned_amount": 100, "actual_amount": 180},
			{"category": "fuel", "planned_amount": 900, "actual_amount": 900},
		},
	})
	testutil.Status(t, http.StatusCreated, rec)
	b := testutil.Decode[entities.Budget](t, rec)
	assert.Equal(t, "1080", b.TotalActualExpense.String())
	assert.InDelta(t, 8.0, b.VariancePercentage, 1e-9)
	assert.Nil(t, b.ROI)
	require.Len(t, b.Alerts, 1)
	assert.Equal(t, entities.AlertCategoryOverspend, b.Alerts[0].Type)
	assert.Equal(t, entities.AlertHigh, b.Alerts[0].Severity)
	base := fmt.Sprintf("/financial/budgets/%d", b.ID)

	testutil.Status(t, http.StatusOK, testutil.Do(t, e, http.MethodPost, base+"/alerts/"+b.Alerts[0].ID+"/acknowledge", "u1", nil))

	rec = testutil.Do(t, e, http.MethodPut, base, "u1", map[string]any{"season": "2025A", "alerts": []any{}})
	testutil.Status(t, http.StatusOK, rec)
	b = testutil.Decode[entities.Budget](t, rec)
	require.Len(t, b.Alerts, 1)
	assert.True(t, b.Alerts[0].Acknowledged)

	testutil.Status(t, http.StatusOK, testutil.Do(t, e, http.MethodPost, base+"/recalculate", "u1", nil))
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/financial/budgets", "u1", map[string]any{"name": "x", "status": "open"}))
	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodPost, base+"/sync", "u2", nil))
}

func TestUpdateBudgetKeepsAlerts(t *testing.T) {
	e := setup(t)
	rec := testutil.Do(t, e, http.MethodPost, "/financial/budgets", "u1", map[string]any{
		"name":       "Season B",
		"categories": []map[string]any{{"category": "seed", "planned_amount": 100, "actual_amount": 200}},
	})
	testutil.Status(t, http.StatusCreated, rec)
	b := testutil.Decode[entities.Budget](t, rec)
	require.Len(t, b.Alerts, 2)
	base := fmt.Sprintf("/financial/budgets/%d", b.ID)

	forged := []map[string]any{}
	for _, a := range b.Alerts {
		forged = append(forged, map[string]any{"id": a.ID, "type": a.Type, "key": a.Key, "acknowledged": true})
	}
	rec = testutil.Do(t, e, http.MethodPut, base, "u1", map[string]any{"season": "2025B", "alerts": forged})
	testutil.Status(t, http.StatusOK, rec)

	got := testutil.Decode[entities.Budget](t, testutil.Do(t, e, http.MethodGet, base, "u1", nil))
	assert.Equal(t, "2025B", got.Season)
	require.Len(t, got.Alerts, 2)
	for i, a := range got.Alerts {
		assert.Equal(t, b.Alerts[i].ID, a.ID)
		assert.False(t, a.Acknowledged, a.Type)
	}
}
