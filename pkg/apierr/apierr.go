// Package apierr turns service errors into the JSON error responses used by
// every controller.
package apierr

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"farmhub/entities"
	"farmhub/pkg/store"
)

// ErrBadRequest marks caller mistakes that are not validator failures.
var ErrBadRequest = errors.New("bad request")

// ErrConflict marks a create that collides with an existing record.
var ErrConflict = errors.New("conflict")

// Status picks the HTTP status for err.
func Status(err error) int {
	var verr validator.ValidationErrors
	var herr *echo.HTTPError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, entities.ErrIssueNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInsufficientQuantity), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.As(err, &herr):
		return herr.Code
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes {"error": message} with the mapped status.
func Respond(c echo.Context, err error) error {
	return c.JSON(Status(err), map[string]string{"error": err.Error()})
}

// BadRequest answers 400 with msg.
func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}
