package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "shortlink/backend/docs"
	"shortlink/backend/internal/handler"
	"shortlink/backend/internal/service"
	"shortlink/backend/internal/service/ratelimit"
)

// NewRouter assembles the HTTP surface. A nil limiter disables admission control.
func NewRouter(
	healthHandler *handler.HealthHandler,
	linkHandler *handler.LinkHandler,
	redirectHandler *handler.RedirectHandler,
	notificationHandler *handler.NotificationHandler,
	tokens service.TokenService,
	limiter *ratelimit.Controller,
	enableSwagger bool,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(RequestLoggerMiddleware())

	guards := buildGuards(tokens, limiter)

	healthHandler.RegisterRoutes(e)
	if enableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group("/api")
	linkHandler.RegisterRoutes(api, guards)
	notificationHandler.RegisterRoutes(api, guards)

	redirectHandler.RegisterRoutes(e, guards)

	return e
}

func buildGuards(tokens service.TokenService, limiter *ratelimit.Controller) handler.RouteGuards {
	limit := func(policy string) []echo.MiddlewareFunc {
		if limiter == nil {
			return nil
		}
		return []echo.MiddlewareFunc{RateLimitMiddleware(limiter, policy)}
	}
	chain := func(parts ...[]echo.MiddlewareFunc) []echo.MiddlewareFunc {
		var out []echo.MiddlewareFunc
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	auth := []echo.MiddlewareFunc{OptionalAuthMiddleware(tokens)}
	owner := []echo.MiddlewareFunc{RequireOwner()}

	return handler.RouteGuards{
		Create:   chain(limit(ratelimit.PolicyCreate), auth, limit(ratelimit.PolicyOwner)),
		Owned:    chain(auth, owner, limit(ratelimit.PolicyOwner)),
		Stream:   chain(limit(ratelimit.PolicyAuth), auth, owner),
		Redirect: limit(ratelimit.PolicyGeneral),
	}
}
