package handler

import "github.com/labstack/echo/v4"

// RouteGuards are the per-route middleware chains the router attaches.
type RouteGuards struct {
	Create []echo.MiddlewareFunc
	// Owned guards routes that need an identified owner.
	Owned []echo.MiddlewareFunc
	// Stream guards the push channel upgrade.
	Stream   []echo.MiddlewareFunc
	Redirect []echo.MiddlewareFunc
}
