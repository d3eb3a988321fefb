package controllerImp

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/crophealth/service"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
	"farmhub/pkg/store"
)

const maxImageBytes = 10 << 20

type CropHealthCtrl struct{ svc service.CropHealthService }

func New(svc service.CropHealthService) *CropHealthCtrl { return &CropHealthCtrl{svc} }

type listResponse struct {
	Items      []entities.CropHealth `json:"items"`
	Stats      service.Stats         `json:"stats"`
	Pagination store.Pagination      `json:"pagination"`
}

func (h *CropHealthCtrl) List(c echo.Context) error {
	items, page, st, err := h.svc.List(c.Request().Context(), middleware.UID(c),
		request.List(c, "health_status", "growth_stage", "crop_id", "field_id"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, listResponse{Items: items, Stats: st, Pagination: page})
}

func (h *CropHealthCtrl) Create(c echo.Context) error {
	var rec entities.CropHealth
	if err := c.Bind(&rec); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	rec.ID = 0
	rec.Farmer = middleware.UID(c)
	if err := c.Validate(&rec); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Create(c.Request().Context(), &rec)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CropHealthCtrl) Get(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	rec, err := h.svc.Get(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// Update keeps the crop binding; moving a record to another crop would break
// the one-record-per-crop rule.
func (h *CropHealthCtrl) Update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	rec, err := h.svc.Get(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	cropID, created := rec.CropID, rec.CreatedAt
	if err := c.Bind(rec); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	rec.ID, rec.Farmer, rec.CropID, rec.CreatedAt = id, middleware.UID(c), cropID, created
	if err := c.Validate(rec); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Update(ctx, rec)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHealthCtrl) Delete(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *CropHealthCtrl) CheckIn(c echo.Context) error {
	var in service.CheckIn
	if err := c.Bind(&in); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&in); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CheckIn(c.Request().Context(), middleware.UID(c), in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CropHealthCtrl) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *CropHealthCtrl) WeatherAlerts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.WeatherAlerts(c.Request().Context(), c.QueryParam("location")))
}

func (h *CropHealthCtrl) AddIssue(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var is entities.HealthIssue
	if err := c.Bind(&is); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&is); err != nil {
		return apierr.Respond(c, err)
	}
	rec, added, err := h.svc.AddIssue(c.Request().Context(), id, middleware.UID(c), is)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"record": rec, "issue": added})
}

func (h *CropHealthCtrl) UpdateIssueStatus(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var body struct {
		Status entities.IssueStatus `json:"status" validate:"required,enum"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&body); err != nil {
		return apierr.Respond(c, err)
	}
	rec, err := h.svc.SetIssueStatus(c.Request().Context(), id, middleware.UID(c), c.Param("issueId"), body.Status)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *CropHealthCtrl) AddTreatment(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var t entities.Treatment
	if err := c.Bind(&t); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	if err := c.Validate(&t); err != nil {
		return apierr.Respond(c, err)
	}
	rec, err := h.svc.ApplyTreatment(c.Request().Context(), id, middleware.UID(c), c.Param("issueId"), t)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *CropHealthCtrl) ResolveIssue(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.Bind(&body)
	rec, err := h.svc.ResolveIssue(c.Request().Context(), id, middleware.UID(c), c.Param("issueId"), body.Notes)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}

// UploadImage takes a multipart "image" field.
func (h *CropHealthCtrl) UploadImage(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return apierr.BadRequest(c, "image file required")
	}
	if fh.Size > maxImageBytes {
		return apierr.BadRequest(c, "image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return apierr.Respond(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes))
	if err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.AnalyzeImage(c.Request().Context(), id, middleware.UID(c), data, fh.Header.Get(echo.HeaderContentType))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
