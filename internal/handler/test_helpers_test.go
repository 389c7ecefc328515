package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"shortlink/backend/internal/handler"
)

func newTestEcho() *echo.Echo {
	return echo.New()
}

// newJSONRequest encodes body as the request payload; a nil body sends none.
func newJSONRequest(method, target string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, target, nil)
	}
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// newJSONRequestRaw sends body verbatim, for malformed payloads.
func newJSONRequestRaw(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func newTestContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// newOwnerContext is newTestContext with the owner id the auth middleware would set.
func newOwnerContext(e *echo.Echo, req *http.Request, ownerID string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(e, req)
	c.Set(handler.OwnerIDKey, ownerID)
	return c, rec
}

func setPathParams(c echo.Context, params map[string]string) {
	var names, values []string
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
}

// assertJSONResponse checks the status and decodes the body into target when set.
func assertJSONResponse(t *testing.T, rec *httptest.ResponseRecorder, status int, target interface{}) {
	t.Helper()
	require.Equal(t, status, rec.Code, "body: %s", rec.Body.String())
	if target != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
	}
}
