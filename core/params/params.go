package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultPageNumber = 1
	defaultPageSize   = 20
	maxPageSize       = 100
)

// QueryParams carries pagination and search parameters parsed from the query string
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// NewQueryParams parses page/page_size/search from the request, applying defaults
func NewQueryParams(c echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: defaultPageNumber,
		PageSize:   defaultPageSize,
		Search:     c.QueryParam("search"),
	}

	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		p.PageNumber = n
	}
	if n, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && n > 0 {
		if n > maxPageSize {
			n = maxPageSize
		}
		p.PageSize = n
	}

	return p
}

// Offset returns the SQL offset for the current page
func (p QueryParams) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}
