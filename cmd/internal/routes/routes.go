package routes

import (
	"strconv"
	"strings"

	"timeforge/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (int, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.Param(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "number")
	}
	return id, nil
}

// queryID parses a numeric query parameter.
func queryID(c echo.Context, name string) (int, apierror.ErrorResponse) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "number")
	}
	return id, nil
}

// paging reads the page/limit query params, tolerating absence; the
// service applies the defaults.
func paging(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	return page, limit
}
