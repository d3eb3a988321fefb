package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/middleware"
	"farmhub/pkg/request"
	"farmhub/pkg/store"
	"farmhub/pkg/weed/service"
)

type WeedCtrl struct{ svc service.WeedService }

func New(svc service.WeedService) *WeedCtrl { return &WeedCtrl{svc} }

func (h *WeedCtrl) ListWeeds(c echo.Context) error {
	items, page, err := h.svc.ListWeeds(c.Request().Context(), c.QueryParam("q"), request.List(c, "weed_type", "life_cycle"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, request.Page[entities.Weed]{Items: items, Pagination: page})
}

func (h *WeedCtrl) CreateWeed(c echo.Context) error {
	var w entities.Weed
	if err := c.Bind(&w); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	w.ID = 0
	if err := c.Validate(&w); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateWeed(c.Request().Context(), &w)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *WeedCtrl) GetWeed(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	w, err := h.svc.GetWeed(c.Request().Context(), id)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *WeedCtrl) UpdateWeed(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	w, err := h.svc.GetWeed(ctx, id)
	if err != nil {
		return apierr.Respond(c, err)
	}
	created := w.CreatedAt
	if err := c.Bind(w); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	w.ID, w.CreatedAt = id, created
	if err := c.Validate(w); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateWeed(ctx, w)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) DeleteWeed(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteWeed(c.Request().Context(), id); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

type issueList struct {
	Items      []entities.WeedIssue `json:"items"`
	Stats      service.Stats        `json:"stats"`
	Pagination store.Pagination     `json:"pagination"`
}

func (h *WeedCtrl) ListIssues(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UID(c)
	items, page, err := h.svc.ListIssues(ctx, uid, request.List(c, "status", "severity", "crop_id", "field_id", "weed_id"))
	if err != nil {
		return apierr.Respond(c, err)
	}
	st, err := h.svc.Stats(ctx, uid)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, issueList{Items: items, Stats: st, Pagination: page})
}

func (h *WeedCtrl) CreateIssue(c echo.Context) error {
	var w entities.WeedIssue
	if err := c.Bind(&w); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	w.ID = 0
	w.Farmer = middleware.UID(c)
	if w.ReportedBy == "" {
		w.ReportedBy = middleware.Actor(c)
	}
	if err := c.Validate(&w); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.CreateIssue(c.Request().Context(), &w)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *WeedCtrl) GetIssue(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	w, err := h.svc.GetIssue(c.Request().Context(), id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// UpdateIssue edits report fields. Status moves through the transition
// endpoints only.
func (h *WeedCtrl) UpdateIssue(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	w, err := h.svc.GetIssue(ctx, id, middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	kept := detachLedger(w)
	if err := c.Bind(w); err != nil {
		return apierr.BadRequest(c, "bad json")
	}
	w.ID, w.Farmer = id, middleware.UID(c)
	kept.restore(w)
	if err := c.Validate(w); err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.UpdateIssue(ctx, w)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) DeleteIssue(c echo.Context) error {
	id, err := request.ID(c, "id")
	if err != nil {
		return apierr.Respond(c, err)
	}
	if err := h.svc.DeleteIssue(c.Request().Context(), id, middleware.UID(c)); err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "deleted"})
}

// issueLedger is the part of an issue written only by the transition
// endpoints and by create.
type issueLedger struct {
	status     entities.WeedIssueStatus
	history    []entities.StatusChange
	apps       []entities.ControlApplication
	monitoring []entities.MonitoringRecord
	actual     entities.ActualCost
	recurrence entities.Recurrence
	outcome    *entities.Outcome
	resolved   *time.Time
	controlled *time.Time
	cleared    *time.Time
	createdAt  time.Time
}

// detachLedger moves the ledger off w. Slices and pointers are cleared so
// Bind allocates fresh values instead of decoding into the stored ones.
func detachLedger(w *entities.WeedIssue) issueLedger {
	l := issueLedger{
		status: w.Status, history: w.StatusHistory,
		apps: w.ControlApplications, monitoring: w.MonitoringRecords,
		actual: w.ActualCost, recurrence: w.Recurrence, outcome: w.Outcome,
		resolved: w.ResolvedDate, controlled: w.ControlledDate, cleared: w.ClearedDate,
		createdAt: w.CreatedAt,
	}
	w.StatusHistory, w.ControlApplications, w.MonitoringRecords = nil, nil, nil
	w.Outcome, w.ResolvedDate, w.ControlledDate, w.ClearedDate = nil, nil, nil, nil
	return l
}

func (l issueLedger) restore(w *entities.WeedIssue) {
	w.Status, w.StatusHistory = l.status, l.history
	w.ControlApplications, w.MonitoringRecords = l.apps, l.monitoring
	w.ActualCost, w.Recurrence, w.Outcome = l.actual, l.recurrence, l.outcome
	w.ResolvedDate, w.ControlledDate, w.ClearedDate = l.resolved, l.controlled, l.cleared
	w.CreatedAt = l.createdAt
}

// bindAction binds and validates the body of a transition endpoint.
func bindAction[T any](c echo.Context) (uint, *T, error) {
	id, err := request.ID(c, "id")
	if err != nil {
		return 0, nil, err
	}
	in := new(T)
	if err := c.Bind(in); err != nil {
		return 0, nil, echo.NewHTTPError(http.StatusBadRequest, "bad json")
	}
	if err := c.Validate(in); err != nil {
		return 0, nil, err
	}
	return id, in, nil
}

func (h *WeedCtrl) UpdateStatus(c echo.Context) error {
	id, in, err := bindAction[service.StatusInput](c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	if in.ChangedBy == "" {
		in.ChangedBy = middleware.Actor(c)
	}
	out, err := h.svc.UpdateStatus(c.Request().Context(), id, middleware.UID(c), *in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) AssignControlMethod(c echo.Context) error {
	id, in, err := bindAction[entities.ControlPayload](c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	if in.Method.AssignedBy == "" {
		in.Method.AssignedBy = middleware.Actor(c)
	}
	out, err := h.svc.AssignControlMethod(c.Request().Context(), id, middleware.UID(c), *in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) AddApplication(c echo.Context) error {
	id, in, err := bindAction[entities.ControlApplication](c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	if in.AppliedBy == "" {
		in.AppliedBy = middleware.Actor(c)
	}
	out, err := h.svc.AddApplication(c.Request().Context(), id, middleware.UID(c), *in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) AddMonitoring(c echo.Context) error {
	id, in, err := bindAction[entities.MonitoringRecord](c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	if in.RecordedBy == "" {
		in.RecordedBy = middleware.Actor(c)
	}
	out, err := h.svc.AddMonitoring(c.Request().Context(), id, middleware.UID(c), *in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) Resolve(c echo.Context) error {
	id, in, err := bindAction[entities.ResolveInput](c)
	if err != nil {
		return apierr.Respond(c, err)
	}
	out, err := h.svc.Resolve(c.Request().Context(), id, middleware.UID(c), *in)
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WeedCtrl) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context(), middleware.UID(c))
	if err != nil {
		return apierr.Respond(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
