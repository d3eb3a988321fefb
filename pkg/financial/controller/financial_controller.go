package controller

import "github.com/labstack/echo/v4"

type FinancialController interface {
	ListTransactions(c echo.Context) error
	CreateTransaction(c echo.Context) error
	GetTransaction(c echo.Context) error
	UpdateTransaction(c echo.Context) error
	DeleteTransaction(c echo.Context) error
	Summary(c echo.Context) error
	ExportCSV(c echo.Context) error
	ExportXLSX(c echo.Context) error

	ListBudgets(c echo.Context) error
	CreateBudget(c echo.Context) error
	GetBudget(c echo.Context) error
	UpdateBudget(c echo.Context) error
	DeleteBudget(c echo.Context) error
	RecalculateBudget(c echo.Context) error
	SyncBudget(c echo.Context) error
	AcknowledgeBudgetAlert(c echo.Context) error
}
