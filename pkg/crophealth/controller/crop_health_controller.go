package controller

import "github.com/labstack/echo/v4"

type CropHealthController interface {
	List(c echo.Context) error
	Create(c echo.Context) error
	Get(c echo.Context) error
	Update(c echo.Context) error
	Delete(c echo.Context) error
	CheckIn(c echo.Context) error
	Stats(c echo.Context) error
	WeatherAlerts(c echo.Context) error
	AddIssue(c echo.Context) error
	UpdateIssueStatus(c echo.Context) error
	AddTreatment(c echo.Context) error
	ResolveIssue(c echo.Context) error
	UploadImage(c echo.Context) error
}
