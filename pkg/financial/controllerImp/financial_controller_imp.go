package controllerImp

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/export"
	"farmhub/pkg/financial/service"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
	"farmhub/pkg/store"
)

type FinancialCtrl struct{ svc service.FinancialService }

func New(svc service.FinancialService) *FinancialCtrl { return &FinancialCtrl{svc} }

// txQuery reads the equality filters plus a from/to window on date.
func txQuery(c echo.Context) (store.ListQuery, error) {
	q := request.List(c, "type", "category", "payment_status", "crop_id", "field_id")
	from, err := request.Date(c, "from")
	if err != nil {
		return q, err
	}
	to, err := request.Date(c, "to")
	if err != nil {
		return q, err
	}
	q.Scopes = []func(*gorm.DB) *gorm.DB{store.Between("date", from, to)}
	return q, nil
}

func (h *FinancialCtrl) ListTransactions(c echo.Context) error {
	q, err := txQuery(c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	items, page, err := h.svc.ListTransactions(c.Request().Context(), middleware.UID(c), q)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.FinancialTransaction]{Items: items, Pagination: page})
}

func (h *FinancialCtrl) CreateTransaction(c echo.Context) error {
	var t entities.FinancialTransaction
	if err := c.Bind(&t); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	t.ID = 0
	t.Farmer = middleware.UID(c)
	if err := c.Validate(&t); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateTransaction(c.Request().Context(), &t)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FinancialCtrl) GetTransaction(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	t, err := h.svc.GetTransaction(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *FinancialCtrl) UpdateTransaction(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	t, err := h.svc.GetTransaction(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created := t.CreatedAt
	if err := c.Bind(t); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	t.ID, t.Farmer, t.CreatedAt = id, middleware.UID(c), created
	if err := c.Validate(t); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateTransaction(ctx, t)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinancialCtrl) DeleteTransaction(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteTransaction(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *FinancialCtrl) Summary(c echo.Context) error {
	q, err := txQuery(c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	sum, err := h.svc.Summary(c.Request().Context(), middleware.UID(c), q)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *FinancialCtrl) export(c echo.Context, format export.Format) error {
	q, err := txQuery(c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	t, err := h.svc.Export(c.Request().Context(), middleware.UID(c), q)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return export.Send(c, t, format, "transactions")
}

func (h *FinancialCtrl) ExportCSV(c echo.Context) error  { return h.export(c, export.CSV) }
func (h *FinancialCtrl) ExportXLSX(c echo.Context) error { return h.export(c, export.XLSX) }

func (h *FinancialCtrl) ListBudgets(c echo.Context) error {
	items, page, err := h.svc.ListBudgets(c.Request().Context(), middleware.UID(c), request.List(c, "status", "season"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.Budget]{Items: items, Pagination: page})
}

func (h *FinancialCtrl) CreateBudget(c echo.Context) error {
	var b entities.Budget
	if err := c.Bind(&b); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	b.ID = 0
	b.Farmer = middleware.UID(c)
	if err := c.Validate(&b); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateBudget(c.Request().Context(), &b)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *FinancialCtrl) GetBudget(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	b, err := h.svc.GetBudget(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateBudget keeps stored alerts so acknowledgements survive the edit.
func (h *FinancialCtrl) UpdateBudget(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	b, err := h.svc.GetBudget(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	created, alerts := b.CreatedAt, b.Alerts
	b.Alerts = nil
	if err := c.Bind(b); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	b.ID, b.Farmer, b.CreatedAt, b.Alerts = id, middleware.UID(c), created, alerts
	if err := c.Validate(b); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateBudget(ctx, b)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinancialCtrl) DeleteBudget(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteBudget(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

func (h *FinancialCtrl) RecalculateBudget(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	b, err := h.svc.RecalculateBudget(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *FinancialCtrl) SyncBudget(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	b, err := h.svc.SyncBudget(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *FinancialCtrl) AcknowledgeBudgetAlert(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	b, err := h.svc.AcknowledgeBudgetAlert(c.Request().Context(), id, middleware.UID(c), c.Param("alertId"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
