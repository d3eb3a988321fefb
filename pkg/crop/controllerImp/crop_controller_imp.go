package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/crop/service"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
)

type CropCtrl struct{ svc service.CropService }

func New(svc service.CropService) *CropCtrl { return &CropCtrl{svc} }

func (h *CropCtrl) List(c echo.Context) error {
	uid := middleware.UID(c)
	items, page, err := h.svc.ListCrops(c.Request().Context(), uid, request.List(c, "status", "field_id", "growth_stage"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.Crop]{Items: items, Pagination: page})
}

func (h *CropCtrl) Create(c echo.Context) error {
	var cr entities.Crop
	if err := c.Bind(&cr); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	cr.ID = 0
	cr.Farmer = middleware.UID(c)
	if err := c.Validate(&cr); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateCrop(c.Request().Context(), &cr)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CropCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	cr, err := h.svc.GetCropByID(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, cr)
}

func (h *CropCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	cr, err := h.svc.GetCropByID(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created := cr.CreatedAt
	if err := c.Bind(cr); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	cr.ID, cr.Farmer, cr.CreatedAt = id, middleware.UID(c), created
	if err := c.Validate(cr); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateCrop(ctx, cr)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteCrop(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}
