package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/field/service"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
)

type FieldCtrl struct{ svc service.FieldService }

func New(svc service.FieldService) *FieldCtrl { return &FieldCtrl{svc} }

func (h *FieldCtrl) List(c echo.Context) error {
	uid := middleware.UID(c)
	items, page, err := h.svc.ListFields(c.Request().Context(), uid, request.List(c, "status", "soil_texture"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.Field]{Items: items, Pagination: page})
}

func (h *FieldCtrl) Create(c echo.Context) error {
	var f entities.Field
	if err := c.Bind(&f); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	f.ID = 0
	f.Farmer = middleware.UID(c)
	if err := c.Validate(&f); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateField(c.Request().Context(), &f)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FieldCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	f, err := h.svc.GetFieldByID(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

func (h *FieldCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	f, err := h.svc.GetFieldByID(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created := f.CreatedAt
	if err := c.Bind(f); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	f.ID, f.Farmer, f.CreatedAt = id, middleware.UID(c), created
	if err := c.Validate(f); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateField(ctx, f)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FieldCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteField(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
