package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
	"farmhub/pkg/worker/service"
)

type WorkerCtrl struct{ svc service.WorkerService }

func New(svc service.WorkerService) *WorkerCtrl { return &WorkerCtrl{svc} }

func (h *WorkerCtrl) List(c echo.Context) error {
	uid := middleware.UID(c)
	items, page, err := h.svc.ListWorkers(c.Request().Context(), uid, request.List(c, "status", "role"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.Worker]{Items: items, Pagination: page})
}

func (h *WorkerCtrl) Create(c echo.Context) error {
	var w entities.Worker
	if err := c.Bind(&w); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	w.ID = 0
	w.Farmer = middleware.UID(c)
	if err := c.Validate(&w); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateWorker(c.Request().Context(), &w)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *WorkerCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	w, err := h.svc.GetWorkerByID(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *WorkerCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	w, err := h.svc.GetWorkerByID(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created := w.CreatedAt
	if err := c.Bind(w); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	w.ID, w.Farmer, w.CreatedAt = id, middleware.UID(c), created
	if err := c.Validate(w); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateWorker(ctx, w)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WorkerCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteWorker(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
