package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"shortlink/backend/internal/service"
	"shortlink/backend/pkg/network"
)

type RedirectHandler struct {
	resolver service.Resolver
}

func NewRedirectHandler(resolver service.Resolver) *RedirectHandler {
	return &RedirectHandler{resolver: resolver}
}

// RegisterRoutes mounts the catch-all code route on the root router. It must
// be registered after every fixed top-level route.
func (h *RedirectHandler) RegisterRoutes(e *echo.Echo, guards RouteGuards) {
	e.GET("/:code", h.Redirect, guards.Redirect...)
}

// Redirect godoc
// @Summary Follow a short link
// @Tags links
// @Param code path string true "short or custom code"
// @Success 302
// @Failure 404 {object} errorResponse
// @Failure 410 {object} errorResponse
// @Router /{code} [get]
func (h *RedirectHandler) Redirect(c echo.Context) error {
	req := c.Request()
	link, err := h.resolver.Resolve(req.Context(), service.ResolveRequest{
		Code:      c.Param("code"),
		IP:        network.ClientIP(req),
		UserAgent: req.UserAgent(),
		Referer:   req.Referer(),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Redirect(http.StatusFound, link.OriginalURL)
}
