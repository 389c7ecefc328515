package network

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP returns the caller address using, in order, the first hop of
// X-Forwarded-For, X-Real-IP, CF-Connecting-IP and finally the socket peer.
// Headers holding something that does not parse as an IP are skipped.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := normalizeIP(first); ip != "" {
			return ip
		}
	}
	for _, header := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if ip := normalizeIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func normalizeIP(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if ip := net.ParseIP(value); ip != nil {
		return ip.String()
	}
	// Some proxies append the port.
	if host, _, err := net.SplitHostPort(value); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			return ip.String()
		}
	}
	return ""
}
