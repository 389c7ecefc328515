package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "forwarded-for first hop wins",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1", "X-Real-IP": "198.51.100.2"},
			remoteAddr: "10.0.0.1:4321",
			want:       "203.0.113.7",
		},
		{
			name:       "real-ip when no forwarded-for",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2", "CF-Connecting-IP": "192.0.2.9"},
			remoteAddr: "10.0.0.1:4321",
			want:       "198.51.100.2",
		},
		{
			name:       "cloudflare header after real-ip",
			headers:    map[string]string{"CF-Connecting-IP": "192.0.2.9"},
			remoteAddr: "10.0.0.1:4321",
			want:       "192.0.2.9",
		},
		{
			name:       "remote address fallback",
			remoteAddr: "192.0.2.44:5555",
			want:       "192.0.2.44",
		},
		{
			name:       "garbage header skipped",
			headers:    map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "198.51.100.2"},
			remoteAddr: "10.0.0.1:4321",
			want:       "198.51.100.2",
		},
		{
			name:       "port on forwarded address stripped",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7:8443"},
			remoteAddr: "10.0.0.1:4321",
			want:       "203.0.113.7",
		},
		{
			name:       "ipv6 forwarded address",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::1"},
			remoteAddr: "[::1]:4321",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/abc", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, ClientIP(req))
		})
	}
}
