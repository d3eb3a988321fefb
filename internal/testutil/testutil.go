// Package testutil builds the database and Echo instance used by controller
// tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"farmhub/database"
	"farmhub/pkg/middleware"
	"farmhub/pkg/validation"
)

// DB opens a migrated SQLite database in a temp dir.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// Echo returns an instance with the validator and dev auth installed. Tests
// pick the farmer with the X-Dev-User header.
func Echo() *echo.Echo {
	e := echo.New()
	e.Validator = validation.New()
	e.Use(middleware.Auth("", true))
	return e
}

// Do sends body as JSON on behalf of uid.
func Do(t *testing.T, e *echo.Echo, method, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if uid != "" {
		req.Header.Set("X-Dev-User", uid)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// Decode unmarshals the recorder body into v.
func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func Status(t *testing.T, want int, rec *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, want, rec.Code, rec.Body.String())
}
