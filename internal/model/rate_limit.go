package model

import "time"

// RateLimitRecord is the counter of one identity under one policy for the current window.
type RateLimitRecord struct {
	Key           string
	Count         int
	WindowResetAt time.Time
}
