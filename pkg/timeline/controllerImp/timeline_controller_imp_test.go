package controllerImp

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmhub/entities"
	"farmhub/internal/testutil"
	cropRepoImp "farmhub/pkg/crop/repositoryImp"
	fieldRepoImp "farmhub/pkg/field/repositoryImp"
	"farmhub/pkg/request"
	resourceRepoImp "farmhub/pkg/resource/repositoryImp"
	resourceSvcImp "farmhub/pkg/resource/serviceImp"
	"farmhub/pkg/timeline/repositoryImp"
	"farmhub/pkg/timeline/service"
	"farmhub/pkg/timeline/serviceImp"
)

func TestTimelineEndpoints(t *testing.T) {
	db := testutil.DB(t)
	resources := resourceSvcImp.New(resourceRepoImp.New(db), nil)
	ctrl := New(serviceImp.New(serviceImp.Deps{
		Repo:   repositoryImp.New(db),
		Crops:  cropRepoImp.New(db),
		Fields: fieldRepoImp.New(db),
		Stock:  resources,
	}))
	e := testutil.Echo()
	e.POST("/crops/:id/timeline/generate", ctrl.Generate)
	g := e.Group("/timeline")
	g.GET("", ctrl.List)
	g.POST("", ctrl.Create)
	g.GET("/upcoming", ctrl.Upcoming)
	g.GET("/:id", ctrl.Get)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
	g.POST("/:id/complete", ctrl.Complete)

	plant := time.Now().UTC().AddDate(0, 0, -1)
	crop := entities.Crop{Farmer: "u1", Name: "beans", PlantingDate: &plant}
	require.NoError(t, db.Create(&crop).Error)
	seed := entities.Resource{Farmer: "u1", Name: "Bean seed", Category: entities.ResourceSeed, TotalQuantity: 5}
	require.NoError(t, db.Create(&seed).Error)

	rec := testutil.Do(t, e, http.MethodPost, fmt.Sprintf("/crops/%d/timeline/generate", crop.ID), "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	gen := testutil.Decode[service.GenerateResult](t, rec)
	assert.NotEmpty(t, gen.Activities)
	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodPost, fmt.Sprintf("/crops/%d/timeline/generate", crop.ID), "u2", nil))

	rec = testutil.Do(t, e, http.MethodPost, "/timeline", "u1", map[string]any{
		"type": "planting", "title": "Sow beans", "scheduled_date": time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		"crop_id": crop.ID, "resources_used": []map[string]any{{"resource_id": seed.ID, "quantity": 2}},
	})
	testutil.Status(t, http.StatusCreated, rec)
	a := testutil.Decode[entities.TimelineActivity](t, rec)
	assert.False(t, a.Generated)
	path := fmt.Sprintf("/timeline/%d", a.ID)

	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/timeline", "u1", map[string]any{"type": "dancing", "title": "x"}))
	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/timeline", "u1", map[string]any{"type": "weeding", "title": "no date"}))

	rec = testutil.Do(t, e, http.MethodGet, "/timeline?type=planting", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	assert.Len(t, testutil.Decode[request.Page[entities.TimelineActivity]](t, rec).Items, 1)

	rec = testutil.Do(t, e, http.MethodGet, "/timeline/upcoming?days=3", "u1", nil)
	testutil.Status(t, http.StatusOK, rec)
	up := testutil.Decode[map[string][]entities.TimelineActivity](t, rec)["items"]
	assert.NotEmpty(t, up)
	for _, x := range up {
		assert.NotEqual(t, entities.ActivityCompleted, x.Status)
	}

	rec = testutil.Do(t, e, http.MethodPut, path, "u1", map[string]any{"priority": "high", "generated": true})
	testutil.Status(t, http.StatusOK, rec)
	a = testutil.Decode[entities.TimelineActivity](t, rec)
	assert.Equal(t, "high", a.Priority)
	assert.False(t, a.Generated)

	rec = testutil.Do(t, e, http.MethodPost, path+"/complete", "u1", map[string]any{"notes": "sown in rows"})
	testutil.Status(t, http.StatusOK, rec)
	a = testutil.Decode[entities.TimelineActivity](t, rec)
	assert.Equal(t, entities.ActivityCompleted, a.Status)
	assert.Equal(t, "sown in rows", a.Notes)
	testutil.Status(t, http.StatusConflict, testutil.Do(t, e, http.MethodPost, path+"/complete", "u1", nil))

	var stored entities.Resource
	require.NoError(t, db.First(&stored, seed.ID).Error)
	assert.Equal(t, 3.0, stored.AvailableQuantity)
	assert.Equal(t, "Developer", stored.UsageHistory[0].UsedBy)

	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodGet, path, "u2", nil))
	testutil.Status(t, http.StatusOK, testutil.Do(t, e, http.MethodDelete, path, "u1", nil))
	testutil.Status(t, http.StatusNotFound, testutil.Do(t, e, http.MethodGet, path, "u1", nil))
}
