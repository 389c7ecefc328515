package http

import (
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"shortlink/backend/internal/handler"
	"shortlink/backend/internal/service"
	"shortlink/backend/internal/service/ratelimit"
	"shortlink/backend/pkg/logger"
	"shortlink/backend/pkg/network"
)

// TokenQueryParam carries the bearer token where headers cannot be set,
// such as a browser websocket upgrade.
const TokenQueryParam = "token"

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

type rateLimitResponse struct {
	Error      string `json:"error"`
	Limit      int    `json:"limit"`
	Remaining  int    `json:"remaining"`
	ResetAt    string `json:"resetAt"`
	RetryAfter int    `json:"retryAfter"`
}

// RequestLoggerMiddleware logs one line per request, at a level chosen by
// status class.
func RequestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			args := []any{
				"module", "http", "action", "request", "resource", "route",
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", network.ClientIP(req),
			}
			switch {
			case status >= nethttp.StatusInternalServerError:
				logger.Error("request", append(args, "result", "error")...)
			case status >= nethttp.StatusBadRequest:
				logger.Warn("request", append(args, "result", "rejected")...)
			default:
				logger.Info("request", append(args, "result", "ok")...)
			}
			return nil
		}
	}
}

// OptionalAuthMiddleware resolves a bearer token, when one is presented, to
// the owner id stored under handler.OwnerIDKey. Requests without a token
// pass through anonymous; a presented token that fails verification is
// rejected rather than downgraded.
func OptionalAuthMiddleware(tokens service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" || tokens == nil {
				return next(c)
			}
			ownerID, err := tokens.Verify(token)
			if err != nil {
				logger.Debug("token rejected", "module", "http", "action", "authenticate", "resource", "token", "result", "rejected",
					"ip", network.ClientIP(c.Request()), "error", err)
				return handler.Error(c, nethttp.StatusUnauthorized, "unauthorized")
			}
			c.Set(handler.OwnerIDKey, ownerID)
			return next(c)
		}
	}
}

// RequireOwner rejects anonymous callers. It must run after OptionalAuthMiddleware.
func RequireOwner() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if handler.OwnerID(c) == "" {
				return handler.Error(c, nethttp.StatusUnauthorized, "unauthorized")
			}
			return next(c)
		}
	}
}

// RateLimitMiddleware admits requests through the named policy. Owner-keyed
// policies only count identified callers. Store failures admit the request.
func RateLimitMiddleware(limiter *ratelimit.Controller, policyName string) echo.MiddlewareFunc {
	policy, ok := limiter.Policy(policyName)
	if !ok {
		logger.Warn("rate limit policy not configured", "module", "http", "action", "configure", "resource", "ratelimit", "result", "skipped",
			"policy", policyName)
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := ratelimit.Identity{
				IP:       network.ClientIP(req),
				OwnerID:  handler.OwnerID(c),
				Endpoint: req.Method + " " + c.Path(),
			}
			if policy.Key == ratelimit.KeyByOwner && id.OwnerID == "" {
				return next(c)
			}

			res, err := limiter.CheckPolicy(req.Context(), policy, id)
			if err != nil {
				logger.Warn("rate limit check failed, admitting request", "module", "http", "action", "check", "resource", "ratelimit", "result", "failed_open",
					"policy", policy.Name, "error", err)
				return next(c)
			}

			writeRateLimitHeaders(c, res)
			if !res.Allowed {
				retryAfter := res.RetryAfterSeconds()
				c.Response().Header().Set(HeaderRetryAfter, strconv.Itoa(retryAfter))
				logger.Info("rate limited", "module", "http", "action", "check", "resource", "ratelimit", "result", "rejected",
					"policy", policy.Name, "ip", id.IP, "owner_id", id.OwnerID)
				return c.JSON(nethttp.StatusTooManyRequests, rateLimitResponse{
					Error:      "rate limit exceeded",
					Limit:      res.Limit,
					Remaining:  0,
					ResetAt:    res.ResetAt.UTC().Format(time.RFC3339),
					RetryAfter: retryAfter,
				})
			}
			return next(c)
		}
	}
}

func writeRateLimitHeaders(c echo.Context, res ratelimit.Result) {
	h := c.Response().Header()
	h.Set(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
	h.Set(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
	h.Set(HeaderRateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return c.QueryParam(TokenQueryParam)
}
