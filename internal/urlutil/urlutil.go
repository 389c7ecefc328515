package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

// MaxURLLength bounds accepted destination URLs.
const MaxURLLength = 2048

var (
	ErrEmptyURL    = errors.New("url is empty")
	ErrURLTooLong  = errors.New("url is too long")
	ErrBadScheme   = errors.New("url scheme must be http or https")
	ErrMissingHost = errors.New("url has no host")
	ErrMalformed   = errors.New("url is malformed")
)

// NormalizeHTTPURL trims raw and checks it is an absolute http(s) URL with a
// host. The returned string keeps query and fragment as given.
func NormalizeHTTPURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyURL
	}
	if len(trimmed) > MaxURLLength {
		return "", ErrURLTooLong
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", ErrMalformed
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return "", ErrBadScheme
	}
	if parsed.Hostname() == "" {
		return "", ErrMissingHost
	}
	return trimmed, nil
}

// StripFragment removes URL fragments while keeping scheme/host/path/query.
func StripFragment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err == nil {
		parsed.Fragment = ""
		return parsed.String()
	}

	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// ExtractHost returns the lowercase host of raw without port, or "".
func ExtractHost(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
