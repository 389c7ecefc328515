package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// parseLimitParam reads ?limit=, clamping it to [1, maxListLimit].
func parseLimitParam(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}
