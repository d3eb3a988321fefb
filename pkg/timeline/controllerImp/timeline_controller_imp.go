package controllerImp

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
	"farmhub/pkg/store"
	"farmhub/pkg/timeline/service"
)

type TimelineCtrl struct{ svc service.TimelineService }

func New(svc service.TimelineService) *TimelineCtrl { return &TimelineCtrl{svc} }

func (h *TimelineCtrl) List(c echo.Context) error {
	q := request.List(c, "crop_id", "field_id", "type", "status", "stage")
	from, err := request.Date(c, "from")
	if err != nil {
		return apierr.Respond(c, err)
	}
	to, err := request.Date(c, "to")
	if err != nil {
		return apierr.Respond(c, err)
	}
	q.Scopes = []func(*gorm.DB) *gorm.DB{store.Between("scheduled_date", from, to)}
	items, page, err := h.svc.List(c.Request().Context(), middleware.UID(c), q)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.TimelineActivity]{Items: items, Pagination: page})
}

func (h *TimelineCtrl) Create(c echo.Context) error {
	var a entities.TimelineActivity
	if err := c.Bind(&a); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	a.ID = 0
	a.Farmer = middleware.UID(c)
	if err := c.Validate(&a); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Create(c.Request().Context(), &a)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TimelineCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	a, err := h.svc.Get(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Update edits the plan. Generated and CompletedDate stay server-owned.
func (h *TimelineCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	a, err := h.svc.Get(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created, generated, done := a.CreatedAt, a.Generated, a.CompletedDate
	if err := c.Bind(a); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	a.ID, a.Farmer, a.CreatedAt, a.Generated, a.CompletedDate = id, middleware.UID(c), created, generated, done
	if err := c.Validate(a); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Update(ctx, a)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TimelineCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *TimelineCtrl) Upcoming(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	items, err := h.svc.Upcoming(c.Request().Context(), middleware.UID(c), days)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *TimelineCtrl) Complete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var in service.CompleteInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&in); err != nil {
		return apierr.Respond(c, err)
	}
	in.CompletedBy = middleware.Actor(c)
	a, err := h.svc.Complete(c.Request().Context(), id, middleware.UID(c), in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// Generate is mounted under /crops/:id/timeline/generate.
func (h *TimelineCtrl) Generate(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	res, err := h.svc.Generate(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
