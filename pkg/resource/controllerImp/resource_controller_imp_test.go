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
	"farmhub/pkg/export"
	"farmhub/pkg/resource/repositoryImp"
	"farmhub/pkg/resource/serviceImp"
)

func setup(t *testing.T) *echo.Echo {
	ctrl := New(serviceImp.New(repositoryImp.New(testutil.DB(t)), nil))
	e := testutil.Echo()
	g := e.Group("/resources")
	g.GET("", ctrl.List)
	g.POST("", ctrl.Create)
	g.GET("/alerts", ctrl.Alerts)
	g.GET("/export/csv", ctrl.ExportCSV)
	g.GET("/export/xlsx", ctrl.ExportXLSX)
	g.GET("/:id", ctrl.Get)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
	g.POST("/:id/use", ctrl.Use)
	g.POST("/:id/stock", ctrl.AddStock)
	g.POST("/:id/alerts/:alertId/acknowledge", ctrl.AcknowledgeAlert)
	return e
}

func TestResourceEndpoints(t *testing.T) {
	e := setup(t)

	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/resources", "u1", map[string]any{"name": "x", "category": "gold"}))

	rec := testutil.Do(t, e, http.MethodPost, "/resources", "u1", map[string]any{
		"name": "NPK", "category": "fertilizer", "unit": "kg", "total_quantity": 100,
		"minimum_threshold": 20, "cost_per_unit": 1.5, "used_quantity": 50,
	})
	testutil.Status(t, http.StatusCreated, rec)
	r := testutil.Decode[entities.Resource](t, rec)
	assert.Equal(t, 100.0, r.AvailableQuantity)
	assert.Equal(t, 150.0, r.TotalCost)
	assert.Equal(t, "available", r.Status)
	base := fmt.Sprintf("/resources/%d", r.ID)

	rec = testutil.Do(t, e, http.MethodPost, base+"/use", "u1", map[string]any{"quantity": 500})
	testutil.Status(t, http.StatusBadRequest, rec)
	assert.Contains(t, rec.Body.String(), "insufficient quantity")
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, base+"/use", "u1", map[string]any{"quantity": 0}))

	rec = testutil.Do(t, e, http.MethodPost, base+"/use", "u1", map[string]any{"quantity": 85, "purpose": "basal"})
	testutil.Status(t, http.StatusOK, rec)
	used := testutil.Decode[struct {
		Resource entities.Resource   `json:"resource"`
		Usage    entities.UsageEntry `json:"usage"`
	}](t, rec)
	assert.Equal(t, 15.0, used.Resource.AvailableQuantity)
	assert.Equal(t, "low_stock", used.Resource.Status)
	assert.Equal(t, "Developer", used.Usage.UsedBy)
	require.Len(t, used.Resource.Alerts, 1)
	alertID := used.Resource.Alerts[0].ID

	rec = testutil.Do(t, e, http.MethodPut, base, "u1", map[string]any{"vendor": "AgroCo", "usage_history": []any{}})
	testutil.Status(t, http.StatusOK, rec)
	upd := testutil.Decode[entities.Resource](t, rec)
	assert.Equal(t, "AgroCo", upd.Vendor)
	assert.Len(t, upd.UsageHistory, 1)

	rec = testutil.Do(t, e, http.MethodGet, "/resources/alerts", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), alertID)

	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodPost, base+"/alerts/nope/acknowledge", "u1", nil))
	testutil.Status(t, http.StatusOK, testutil.Do(t, e, http.MethodPost, base+"/alerts/"+alertID+"/acknowledge", "u1", nil))

	rec = testutil.Do(t, e, http.MethodPost, base+"/stock", "u1", map[string]any{"quantity": 50, "cost_per_unit": 2})
	testutil.Status(t, http.StatusOK, rec)
	r = testutil.Decode[entities.Resource](t, rec)
	assert.Equal(t, 65.0, r.AvailableQuantity)
	assert.Equal(t, 300.0, r.TotalCost)
	assert.Empty(t, r.Alerts)

	rec = testutil.Do(t, e, http.MethodGet, "/resources/export/csv", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Equal(t, export.CSVContentType, rec.Header().Get(echo.HeaderContentType))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Name,Category,Unit,Total Quantity"))
	assert.Contains(t, lines[1], "NPK,fertilizer,kg,150")

	rec = testutil.Do(t, e, http.MethodGet, "/resources/export/xlsx", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	rec = testutil.Do(t, e, http.MethodGet, "/resources/export/csv", "u2", nil)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(rec.Body.String()), "\n")+1)
}

func TestUpdateKeepsUsageLedger(t *testing.T) {
	e := setup(t)
	rec := testutil.Do(t, e, http.MethodPost, "/resources", "u1", map[string]any{
		"name": "Urea", "category": "fertilizer", "unit": "kg", "total_quantity": 50, "minimum_threshold": 20, "cost_per_unit": 2,
	})
	testutil.Status(t, http.StatusCreated, rec)
	base := fmt.Sprintf("/resources/%d", testutil.Decode[entities.Resource](t, rec).ID)

	rec = testutil.Do(t, e, http.MethodPost, base+"/use", "u1", map[string]any{"quantity": 40, "purpose": "basal"})
	testutil.Status(t, http.StatusOK, rec)
	before := testutil.Decode[struct {
		Resource entities.Resource `json:"resource"`
	}](t, rec).Resource
	require.Len(t, before.UsageHistory, 1)
	require.Len(t, before.MonthlyUsage, 1)
	require.Len(t, before.Alerts, 1)

	rec = testutil.Do(t, e, http.MethodPut, base, "u1", map[string]any{
		"vendor":        "AgroCo",
		"usage_history": []map[string]any{{"id": "forged", "purpose": "forged", "quantity": 1}},
		"monthly_usage": []map[string]any{{"month": "1999-01", "quantity": 999}},
		"alerts":        []map[string]any{{"id": before.Alerts[0].ID, "type": "low_stock", "acknowledged": true}},
	})
	testutil.Status(t, http.StatusOK, rec)

	got := testutil.Decode[entities.Resource](t, testutil.Do(t, e, http.MethodGet, base, "u1", nil))
	assert.Equal(t, "AgroCo", got.Vendor)
	assert.Equal(t, before.UsageHistory, got.UsageHistory)
	assert.Equal(t, before.MonthlyUsage, got.MonthlyUsage)
	require.Len(t, got.Alerts, 1)
	assert.Equal(t, before.Alerts[0].ID, got.Alerts[0].ID)
	assert.False(t, got.Alerts[0].Acknowledged)
}
