package export

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// Send streams t as an attachment named base.<format>.
func Send(c echo.Context, t Table, format Format, base string) error {
	write, ct := t.WriteCSV, CSVContentType
	if format == XLSX {
		write, ct = t.WriteXLSX, XLSXContentType
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, ct)
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.%s"`, base, format))
	res.WriteHeader(http.StatusOK)
	return write(res)
}
