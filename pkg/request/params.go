// Package request parses path and query parameters shared by controllers.
package request

import (
	"fmt"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"farmhub/pkg/apierr"
	"farmhub/pkg/store"
)

// ID parses a uint path parameter.
func ID(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: invalid %s", apierr.ErrBadRequest, name)
	}
	return uint(v), nil
}

// List reads page and limit plus the named equality filters.
func List(c echo.Context, filters ...string) store.ListQuery {
	q := store.ListQuery{Filters: map[string]any{}}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	for _, f := range filters {
		if v := c.QueryParam(f); v != "" {
			q.Filters[f] = v
		}
	}
	return q
}

// Date parses YYYY-MM-DD or RFC 3339; empty gives nil.
func Date(c echo.Context, name string) (*time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid %s", apierr.ErrBadRequest, name)
}

// Page is the list response shape for paged collections.
type Page[T any] struct {
	Items      []T              `json:"items"`
	Pagination store.Pagination `json:"pagination"`
}
