package controller

import "github.com/labstack/echo/v4"

type ResourceController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	Use(c echo.Context) error
	AddStock(c echo.Context) error
	Alerts(c echo.Context) error
	AcknowledgeAlert(c echo.Context) error
	ExportCSV(c echo.Context) error
	ExportXLSX(c echo.Context) error
}
