package ratelimit

import (
	"context"
	"sync"
	"time"

	"shortlink/backend/internal/model"
)

type memoryRecord struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
	// dead marks a record the sweep removed; holders must re-resolve the key.
	dead bool
}

// MemoryStore keeps counters in process memory. Each record has its own lock,
// so checks on different keys never contend.
type MemoryStore struct {
	records sync.Map // key -> *memoryRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (model.RateLimitRecord, bool, error) {
	for {
		v, _ := s.records.LoadOrStore(key, &memoryRecord{})
		rec := v.(*memoryRecord)

		rec.mu.Lock()
		if rec.dead {
			rec.mu.Unlock()
			continue
		}
		if rec.resetAt.IsZero() || !now.Before(rec.resetAt) {
			rec.count = 0
			rec.resetAt = now.Add(window)
		}
		allowed := rec.count < limit
		if allowed {
			rec.count++
		}
		out := model.RateLimitRecord{Key: key, Count: rec.count, WindowResetAt: rec.resetAt}
		rec.mu.Unlock()
		return out, allowed, nil
	}
}

// Sweep never waits on a record lock: a record busy with a check is live by
// definition and is left for the next sweep.
func (s *MemoryStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	s.records.Range(func(k, v any) bool {
		if ctx.Err() != nil {
			return false
		}
		rec := v.(*memoryRecord)
		if !rec.mu.TryLock() {
			return true
		}
		if !rec.dead && !rec.resetAt.IsZero() && !now.Before(rec.resetAt) {
			rec.dead = true
			s.records.CompareAndDelete(k, rec)
			removed++
		}
		rec.mu.Unlock()
		return true
	})
	return removed, ctx.Err()
}

func (s *MemoryStore) size() int {
	n := 0
	s.records.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
