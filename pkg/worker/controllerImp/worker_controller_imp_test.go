package controllerImp

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"farmhub/entities"
	"farmhub/internal/testutil"
	"farmhub/pkg/request"
	"farmhub/pkg/worker/repositoryImp"
	"farmhub/pkg/worker/serviceImp"
)

func TestWorkerCreateAndList(t *testing.T) {
	db := testutil.DB(t)
	ctrl := New(serviceImp.NewWorkerService(repositoryImp.New(db)))
	e := testutil.Echo()
	e.POST("/workers", ctrl.Create)
	e.GET("/workers", ctrl.List)

	rec := testutil.Do(t, e, http.MethodPost, "/workers", "u1", map[string]any{
		"name": "Lek", "role": "harvester", "daily_wage": 350, "skills": []string{"pruning"},
	})
	testutil.Status(t, http.StatusCreated, rec)
	w := testutil.Decode[entities.Worker](t, rec)
	assert.Equal(t, "active", w.Status)

	testutil.Status(t, http.StatusBadRequest, testutil.Do(t, e, http.MethodPost, "/workers", "u1", map[string]any{
		"name": "Bad", "email": "not-an-email",
	}))

	rec = testutil.Do(t, e, http.MethodGet, "/workers?role=harvester", "u1", nil)
	page := testutil.Decode[request.Page[entities.Worker]](t, rec)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, []string{"pruning"}, page.Items[0].Skills)

	rec = testutil.Do(t, e, http.MethodGet, "/workers", "u2", nil)
	page = testutil.Decode[request.Page[entities.Worker]](t, rec)
	assert.Empty(t, page.Items)
}
