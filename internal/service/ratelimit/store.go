package ratelimit

import (
	"context"
	"time"

	"shortlink/backend/internal/model"
)

// Store holds fixed-window counters. Hit must be atomic per key: the request
// is counted only when the counter is below limit, otherwise it is rejected
// and the counter is left untouched.
type Store interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (model.RateLimitRecord, bool, error)
	// Sweep discards records whose window ended at or before now and reports how many.
	Sweep(ctx context.Context, now time.Time) (int, error)
}
