package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"farmhub/pkg/blob"
)

var appStart = time.Now()

type HealthCtrl struct {
	db    *gorm.DB
	blobs blob.Store
}

func NewHealthCtrl(db *gorm.DB, blobs blob.Store) *HealthCtrl {
	return &HealthCtrl{db: db, blobs: blobs}
}

type check struct {
	OK     bool   `json:"ok"`
	Driver string `json:"driver,omitempty"`
	Err    string `json:"err,omitempty"`
}

func (h *HealthCtrl) pingDB(ctx context.Context) check {
	if h.db == nil {
		return check{Err: "gorm db is nil"}
	}
	out := check{Driver: h.db.Dialector.Name()}
	sqlDB, err := h.db.DB()
	if err != nil {
		out.Err = "db.DB(): " + err.Error()
		return out
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		out.Err = "ping: " + err.Error()
		return out
	}
	out.OK = true
	return out
}

func (h *HealthCtrl) pingBlobs(ctx context.Context) check {
	if h.blobs == nil {
		return check{Err: "blob store not configured"}
	}
	out := check{Driver: string(h.blobs.Driver())}
	if err := h.blobs.Ping(ctx); err != nil {
		out.Err = err.Error()
		return out
	}
	out.OK = true
	return out
}

// Health answers 503 when any dependency fails its ping.
func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.pingDB(ctx)
	blobs := h.pingBlobs(ctx)
	allOK := db.OK && blobs.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]check{
			"database": db,
			"blob":     blobs,
		},
		"time": time.Now().Format(time.RFC3339),
	})
}
