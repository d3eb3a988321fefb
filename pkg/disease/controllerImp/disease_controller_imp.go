package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/disease/service"
	"farmhub/pkg/request"
)

type DiseaseCtrl struct{ svc service.DiseaseService }

func New(svc service.DiseaseService) *DiseaseCtrl { return &DiseaseCtrl{svc} }

func (h *DiseaseCtrl) List(c echo.Context) error {
	items, page, err := h.svc.List(c.Request().Context(), c.QueryParam("q"), request.List(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.Disease]{Items: items, Pagination: page})
}

func (h *DiseaseCtrl) Create(c echo.Context) error {
	var d entities.Disease
	if err := c.Bind(&d); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	d.ID = 0
	if err := c.Validate(&d); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Create(c.Request().Context(), &d)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *DiseaseCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DiseaseCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	d, err := h.svc.Get(ctx, id)
	if err != nil {
		return apierr.Respond(c, err)
	}
	created := d.CreatedAt
	if err := c.Bind(d); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	d.ID, d.CreatedAt = id, created
	if err := c.Validate(d); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Update(ctx, d)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DiseaseCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

// Match accepts symptoms as a comma list or repeated query parameter.
func (h *DiseaseCtrl) Match(c echo.Context) error {
	var symptoms []string
	for _, v := range c.QueryParams()["symptoms"] {
		symptoms = append(symptoms, strings.Split(v, ",")...)
	}
	out, err := h.svc.Match(c.Request().Context(), c.QueryParam("crop"), symptoms)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"matches": out})
}

func (h *DiseaseCtrl) ImportURL(c echo.Context) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&body); err != nil || body.URL == "" {
		return apierr.BadRequest(c, "url required")
	}
	res, err := h.svc.ImportURL(c.Request().Context(), body.URL)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
