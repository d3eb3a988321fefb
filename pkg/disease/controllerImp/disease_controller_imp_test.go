package controllerImp

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/entities"
	"farmhub/internal/testutil"
	"farmhub/pkg/disease/repositoryImp"
	"farmhub/pkg/disease/service"
	"farmhub/pkg/disease/serviceImp"
	"farmhub/pkg/request"
)

func TestDiseaseEndpoints(t *testing.T) {
	db := testutil.DB(t)
	ctrl := New(serviceImp.New(repositoryImp.New(db), []string{"extension.example.org"}))
	e := testutil.Echo()
	g := e.Group("/diseases")
	g.GET("", ctrl.List)
	g.POST("", ctrl.Create)
	g.GET("/match", ctrl.Match)
	g.POST("/import/url", ctrl.ImportURL)
	g.GET("/:id", ctrl.Get)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)

	for _, body := range []map[string]any{
		{"name": "Bean Rust", "affected_crops": []string{"beans"}, "symptoms": []string{"rust pustules", "yellow leaves"}},
		{"name": "Angular Leaf Spot", "affected_crops": []string{"beans"}, "symptoms": []string{"angular brown spots", "yellow leaves"}},
		{"name": "Maize Streak", "affected_crops": []string{"maize"}, "symptoms": []string{"yellow leaves"}},
	} {
		testutil.Status(t, http.StatusCreated, testutil.Do(t, e, http.MethodPost, "/diseases", "u1", body))
	}
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/diseases", "u1", map[string]any{"name": "Empty"}))

	rec := testutil.Do(t, e, http.MethodGet, "/diseases?q=rust", "u2", nil)
	testutil.Status(t, http.StatusOK, rec)
	page := testutil.Decode[request.Page[entities.Disease]](t, rec)
	require.Len(t, page.Items, 1)
	rust := page.Items[0]

	rec = testutil.Do(t, e, http.MethodGet, "/diseases/match?crop=Beans&symptoms=yellow+leaves,rust+pustules", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	matches := testutil.Decode[map[string][]service.Match](t, rec)["matches"]
	require.Len(t, matches, 2)
	assert.Equal(t, "Bean Rust", matches[0].Disease.Name)
	assert.InDelta(t, 1.0, matches[0].Confidence, 1e-9)

	rec = testutil.Do(t, e, http.MethodGet, "/diseases/match?crop=beans&symptoms=yellow+leaves&symptoms=angular+brown+spots", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	matches = testutil.Decode[map[string][]service.Match](t, rec)["matches"]
	assert.Equal(t, "Angular Leaf Spot", matches[0].Disease.Name)

	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodGet, "/diseases/match?symptoms=x", "u1", nil))
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/diseases/import/url", "u1",
		map[string]any{"url": "https://evil.example.com/table"}))

	rec = testutil.Do(t, e, http.MethodPut, fmt.Sprintf("/diseases/%d", rust.ID), "u1", map[string]any{"treatments": []string{"sulphur"}})
	testutil.Status(t, http.StatusOK, rec)
	assert.Equal(t, []string{"sulphur"}, testutil.Decode[entities.Disease](t, rec).Treatments)

	testutil.Status(t, http.StatusOK, testutil.Do(t, e, http.MethodDelete, fmt.Sprintf("/diseases/%d", rust.ID), "u1", nil))
	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodGet, fmt.Sprintf("/diseases/%d", rust.ID), "u1", nil))
}
