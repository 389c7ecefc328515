package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"shortlink/backend/internal/service"
	"shortlink/backend/pkg/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Error writes a JSON error body with the given status.
func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

func writeServiceError(c echo.Context, err error) error {
	var verr *service.ValidationError
	var conflict *service.CodeConflictError

	switch {
	case errors.As(err, &verr):
		return Error(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrInvalid):
		return Error(c, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrNotFound):
		return Error(c, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrGone):
		return Error(c, http.StatusGone, "link expired")
	case errors.As(err, &conflict):
		return Error(c, http.StatusConflict, conflict.Error())
	case errors.Is(err, service.ErrConflict):
		return Error(c, http.StatusConflict, "conflict")
	case errors.Is(err, service.ErrUnauthorized):
		return Error(c, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, service.ErrForbidden):
		return Error(c, http.StatusForbidden, "forbidden")
	default:
		logger.Error("request failed", "module", "handler", "action", "respond", "resource", "http", "result", "failed",
			"path", c.Path(), "error", err)
		return Error(c, http.StatusInternalServerError, "internal error")
	}
}

// OwnerIDKey is the echo context key holding the authenticated owner id.
const OwnerIDKey = "owner_id"

// OwnerID returns the authenticated owner, or "" for anonymous callers.
func OwnerID(c echo.Context) string {
	if v, ok := c.Get(OwnerIDKey).(string); ok {
		return v
	}
	return ""
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
