package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/export"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
	"farmhub/pkg/resource/service"
	"farmhub/pkg/store"
)

type ResourceCtrl struct{ svc service.ResourceService }

func New(svc service.ResourceService) *ResourceCtrl { return &ResourceCtrl{svc} }

var listFilters = []string{"category", "status"}

type listResponse struct {
	Items      []entities.Resource `json:"items"`
	Stats      service.Stats       `json:"stats"`
	Pagination store.Pagination    `json:"pagination"`
}

func (h *ResourceCtrl) List(c echo.Context) error {
	items, page, st, err := h.svc.List(c.Request().Context(), middleware.UID(c), request.List(c, listFilters...))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: items, Stats: st, Pagination: page})
}

func (h *ResourceCtrl) Create(c echo.Context) error {
	var r entities.Resource
	if err := c.Bind(&r); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	r.ID = 0
	r.Farmer = middleware.UID(c)
	if err := c.Validate(&r); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Create(c.Request().Context(), &r)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ResourceCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	r, err := h.svc.Get(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Update keeps the usage ledger; quantities drawn go through Use.
func (h *ResourceCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	r, err := h.svc.Get(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created, history, monthly, alerts := r.CreatedAt, r.UsageHistory, r.MonthlyUsage, r.Alerts
	// Bind decodes into existing backing arrays, so detach the ledger first.
	r.UsageHistory, r.MonthlyUsage, r.Alerts = nil, nil, nil
	if err := c.Bind(r); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	r.ID, r.Farmer, r.CreatedAt = id, middleware.UID(c), created
	r.UsageHistory, r.MonthlyUsage, r.Alerts = history, monthly, alerts
	if err := c.Validate(r); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Update(ctx, r)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ResourceCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *ResourceCtrl) Use(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var in entities.UseInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&in); err != nil {
		return apierr.Respond(c, err)
	}
	if in.UsedBy == "" {
		in.UsedBy = middleware.Actor(c)
	}
	r, entry, err := h.svc.Use(c.Request().Context(), id, middleware.UID(c), in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"resource": r, "usage": entry})
}

func (h *ResourceCtrl) AddStock(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var in entities.StockInput
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&in); err != nil {
		return apierr.Respond(c, err)
	}
	r, err := h.svc.AddStock(c.Request().Context(), id, middleware.UID(c), in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ResourceCtrl) Alerts(c echo.Context) error {
	out, err := h.svc.Alerts(c.Request().Context(), middleware.UID(c), c.QueryParam("all") == "true")
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"alerts": out})
}

func (h *ResourceCtrl) AcknowledgeAlert(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	r, err := h.svc.AcknowledgeAlert(c.Request().Context(), id, middleware.UID(c), c.Param("alertId"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ResourceCtrl) ExportCSV(c echo.Context) error {
	t, err := h.svc.Export(c.Request().Context(), middleware.UID(c), request.List(c, listFilters...))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return export.Send(c, t, export.CSV, "resources")
}

func (h *ResourceCtrl) ExportXLSX(c echo.Context) error {
	t, err := h.svc.Export(c.Request().Context(), middleware.UID(c), request.List(c, listFilters...))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return export.Send(c, t, export.XLSX, "resources")
}
