package geo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"shortlink/backend/internal/model"
	"shortlink/backend/pkg/logger"
	"shortlink/backend/pkg/network"
)

const maxResponseBytes = 64 << 10

// providerResponse follows the ip-api.com JSON shape.
type providerResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Region      string `json:"region"`
	RegionName  string `json:"regionName"`
	City        string `json:"city"`
}

// HTTPEnricher queries an external provider. The URL template must contain
// "{ip}", e.g. "http://ip-api.com/json/{ip}".
type HTTPEnricher struct {
	urlTemplate string
	source      string
	clients     *network.ClientFactory
	timeout     time.Duration
	limiter     *rate.Limiter
}

// NewHTTPEnricher builds a provider-backed enricher. perMinute bounds outbound
// lookups; zero disables the quota.
func NewHTTPEnricher(urlTemplate string, clients *network.ClientFactory, timeout time.Duration, perMinute int) *HTTPEnricher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if perMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
	source := "provider"
	if u, err := url.Parse(strings.ReplaceAll(urlTemplate, "{ip}", "0.0.0.0")); err == nil && u.Hostname() != "" {
		source = u.Hostname()
	}
	return &HTTPEnricher{
		urlTemplate: urlTemplate,
		source:      source,
		clients:     clients,
		timeout:     timeout,
		limiter:     limiter,
	}
}

func (e *HTTPEnricher) Enrich(ctx context.Context, ip string) *model.Location {
	if !IsPublicIP(ip) {
		return nil
	}
	// Over quota means no attribution rather than a delayed one.
	if !e.limiter.Allow() {
		logger.Debug("geo lookup skipped", "module", "geo", "action", "lookup", "resource", "ip", "result", "quota")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	endpoint := strings.ReplaceAll(e.urlTemplate, "{ip}", url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logger.Warn("geo lookup request", "module", "geo", "action", "lookup", "resource", "ip", "result", "failed", "error", err)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.clients.NewHTTPClient(ctx, e.timeout).Do(req)
	if err != nil {
		logger.Warn("geo lookup failed", "module", "geo", "action", "lookup", "resource", "ip", "result", "failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("geo lookup status", "module", "geo", "action", "lookup", "resource", "ip", "result", "failed", "status", resp.StatusCode)
		return nil
	}

	var body providerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		logger.Warn("geo lookup decode", "module", "geo", "action", "lookup", "resource", "ip", "result", "failed", "error", err)
		return nil
	}
	if body.Status != "" && body.Status != "success" {
		logger.Debug("geo lookup rejected", "module", "geo", "action", "lookup", "resource", "ip", "result", "failed", "message", body.Message)
		return nil
	}

	loc := &model.Location{
		Country: firstNonEmpty(body.CountryCode, body.Country),
		City:    body.City,
		Region:  firstNonEmpty(body.RegionName, body.Region),
		Source:  e.source,
	}
	if loc.Country == "" && loc.City == "" && loc.Region == "" {
		return nil
	}
	return loc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
