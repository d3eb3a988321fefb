package controller

import "github.com/labstack/echo/v4"

type WeedController interface {
	ListWeeds(c echo.Context) error
	CreateWeed(c echo.Context) error
	GetWeed(c echo.Context) error
	UpdateWeed(c echo.Context) error
	DeleteWeed(c echo.Context) error

	ListIssues(c echo.Context) error
	CreateIssue(c echo.Context) error
	GetIssue(c echo.Context) error
	UpdateIssue(c echo.Context) error
	DeleteIssue(c echo.Context) error
	UpdateStatus(c echo.Context) error
	AssignControlMethod(c echo.Context) error
	AddApplication(c echo.Context) error
	AddMonitoring(c echo.Context) error
	Resolve(c echo.Context) error
	Stats(c echo.Context) error
}
