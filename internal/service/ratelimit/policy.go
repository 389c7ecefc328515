// Package ratelimit implements fixed-window admission control for named policies.
package ratelimit

import (
	"strings"
	"time"

	"shortlink/backend/internal/config"
)

// Policy names used by the HTTP surface.
const (
	PolicyGeneral = "general"
	PolicyCreate  = "create"
	PolicyAuth    = "auth"
	PolicyOwner   = "owner"
)

// KeyStrategy selects which part of the caller identity a policy counts against.
type KeyStrategy string

const (
	KeyByIP            KeyStrategy = "ip"
	KeyByOwner         KeyStrategy = "owner"
	KeyByIPAndEndpoint KeyStrategy = "ip_endpoint"
)

// Identity is everything a key strategy may draw from.
type Identity struct {
	IP       string
	OwnerID  string
	Endpoint string
}

type Policy struct {
	Name   string
	Limit  int
	Window time.Duration
	Key    KeyStrategy
}

// KeyFor builds the counter key of id under p. Owner keys fall back to the
// address for anonymous callers so they are still limited.
func (p Policy) KeyFor(id Identity) string {
	var b strings.Builder
	b.WriteString("rl:")
	b.WriteString(p.Name)
	switch p.Key {
	case KeyByOwner:
		if id.OwnerID != "" {
			b.WriteString(":owner:")
			b.WriteString(id.OwnerID)
			return b.String()
		}
		b.WriteString(":ip:")
		b.WriteString(id.IP)
	case KeyByIPAndEndpoint:
		b.WriteString(":ip:")
		b.WriteString(id.IP)
		b.WriteString(":ep:")
		b.WriteString(id.Endpoint)
	default:
		b.WriteString(":ip:")
		b.WriteString(id.IP)
	}
	return b.String()
}

// DefaultPolicies builds the four standard policies from configuration.
func DefaultPolicies(cfg config.Config) []Policy {
	return []Policy{
		{Name: PolicyGeneral, Limit: cfg.RateGeneral.Limit, Window: cfg.RateGeneral.Window, Key: KeyByIP},
		{Name: PolicyCreate, Limit: cfg.RateCreate.Limit, Window: cfg.RateCreate.Window, Key: KeyByIP},
		{Name: PolicyAuth, Limit: cfg.RateAuth.Limit, Window: cfg.RateAuth.Window, Key: KeyByIPAndEndpoint},
		{Name: PolicyOwner, Limit: cfg.RateOwner.Limit, Window: cfg.RateOwner.Window, Key: KeyByOwner},
	}
}

// Result is the outcome of one admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is zero for admitted requests.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, at least 1 when rejected.
func (r Result) RetryAfterSeconds() int {
	if r.Allowed {
		return 0
	}
	secs := int((r.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
