package controller

import "github.com/labstack/echo/v4"

type TimelineController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Upcoming(c echo.Context) error
	Complete(c echo.Context) error
	Generate(c echo.Context) error
}
