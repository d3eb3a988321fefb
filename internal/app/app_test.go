package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/config"
	"farmhub/entities"
	"farmhub/internal/testutil"
	"farmhub/pkg/blob"
	"farmhub/pkg/seed"
)

func newApp(t *testing.T, cfg config.AppConfig) *App {
	fs, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)
	a, err := New(context.Background(), cfg, testutil.DB(t), Collaborators{Blobs: fs}, nil)
	require.NoError(t, err)
	return a
}

func call(t *testing.T, e *echo.Echo, method, path string, body any) *httptest.ResponseRecorder {
	return testutil.Do(t, e, method, path, "farmer-1", body)
}

func TestFarmFlow(t *testing.T) {
	a := newApp(t, config.AppConfig{DevAuth: true})
	e := a.Echo

	_, err := seed.Apply(context.Background(), seed.Catalog{Diseases: []entities.Disease{{
		Name: "Northern Corn Leaf Blight", AffectedCrops: []string{"maize"},
		Symptoms: []string{"cigar-shaped lesions", "grey lesions"}, Treatments: []string{"fungicide"},
	}}}, a.Diseases, a.Weeds, nil)
	require.NoError(t, err)

	rec := call(t, e, http.MethodPost, "/api/fields", map[string]any{"name": "River plot", "area": 2, "soil_texture": "clay"})
	testutil.Status(t, http.StatusCreated, rec)
	field := testutil.Decode[entities.Field](t, rec)

	rec = call(t, e, http.MethodPost, "/api/crops", map[string]any{
		"name": "maize", "field_id": field.ID, "planting_date": "2025-03-01T00:00:00Z",
	})
	testutil.Status(t, http.StatusCreated, rec)
	crop := testutil.Decode[entities.Crop](t, rec)

	rec = call(t, e, http.MethodPost, fmt.Sprintf("/api/crops/%d/timeline/generate", crop.ID), nil)
	testutil.Status(t, http.StatusOK, rec)

	rec = call(t, e, http.MethodPost, "/api/crop-health/checkin", map[string]any{"crop_id": crop.ID})
	testutil.Status(t, http.StatusOK, rec)
	record := testutil.Decode[entities.CropHealth](t, rec)
	assert.Equal(t, 100, record.HealthScore)

	rec = call(t, e, http.MethodPost, fmt.Sprintf("/api/crop-health/%d/issues", record.ID), map[string]any{
		"type": "disease", "severity": "high", "affected_area": 40, "symptoms": []string{"cigar-shaped lesions"},
	})
	testutil.Status(t, http.StatusCreated, rec)
	var added struct {
		Record entities.CropHealth  `json:"record"`
		Issue  entities.HealthIssue `json:"issue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, 80, added.Record.HealthScore)
	require.NotNil(t, added.Issue.AIAnalysis)
	assert.Equal(t, "Northern Corn Leaf Blight", added.Issue.AIAnalysis.SuggestedDiagnosis)

	rec = call(t, e, http.MethodGet, "/api/diseases/match?crop=maize&symptoms=grey+lesions", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), "Northern Corn Leaf Blight")

	rec = call(t, e, http.MethodPost, "/api/resources", map[string]any{
		"name": "DAP", "category": "fertilizer", "total_quantity": 10, "minimum_threshold": 5, "cost_per_unit": 3,
	})
	testutil.Status(t, http.StatusCreated, rec)
	res := testutil.Decode[entities.Resource](t, rec)
	rec = call(t, e, http.MethodPost, fmt.Sprintf("/api/resources/%d/use", res.ID), map[string]any{"quantity": 6})
	testutil.Status(t, http.StatusOK, rec)
	rec = call(t, e, http.MethodGet, "/api/resources/alerts", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), "low_stock")

	rec = call(t, e, http.MethodGet, "/api/resources/export/csv", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "ID,Name,Category"))

	rec = call(t, e, http.MethodGet, "/api/auth/whoami", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), "farmer-1")

	// other farmers see nothing
	rec = testutil.Do(t, e, http.MethodGet, fmt.Sprintf("/api/crops/%d", crop.ID), "farmer-2", nil)
	testutil.Status(t, http.StatusNotFound, rec)
}

func TestHealthAndMetrics(t *testing.T) {
	e := newApp(t, config.AppConfig{DevAuth: true}).Echo
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	testutil.Status(t, http.StatusOK, rec)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testutil.Status(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestBearerAuth(t *testing.T) {
	e := newApp(t, config.AppConfig{JWTSecret: "s3cret"}).Echo

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fields", nil))
	testutil.Status(t, http.StatusUnauthorized, rec)

	// token minting is a dev-only route
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"id":"f1"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)
	testutil.Status(t, http.StatusNotFound, rec)
}

func TestDevTokenRoundTrip(t *testing.T) {
	e := newApp(t, config.AppConfig{JWTSecret: "s3cret", DevAuth: true}).Echo

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(`{"id":"f1","name":"Wanjiru"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(rec, req)
	testutil.Status(t, http.StatusOK, rec)
	tok := testutil.Decode[map[string]any](t, rec)["token"].(string)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	e.ServeHTTP(rec, req)
	testutil.Status(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), "Wanjiru")
}
