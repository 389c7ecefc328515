package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"shortlink/backend/internal/handler"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     handler.Pinger
		status int
		want   string
	}{
		{name: "no database", db: nil, status: http.StatusOK, want: "ok"},
		{name: "healthy", db: pingerFunc(func(context.Context) error { return nil }), status: http.StatusOK, want: "ok"},
		{name: "unreachable", db: pingerFunc(func(context.Context) error { return errors.New("closed") }), status: http.StatusServiceUnavailable, want: "unavailable"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tc.db)
			e := newTestEcho()
			c, rec := newTestContext(e, newJSONRequest(http.MethodGet, "/health", nil))

			require.NoError(t, h.Health(c))
			var resp handler.HealthResponse
			assertJSONResponse(t, rec, tc.status, &resp)
			require.Equal(t, tc.want, resp.Status)
		})
	}
}
