package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shortlink/backend/internal/model"
)

// hitScript returns {count, pttl, allowed}. The check and the increment run
// as one script so concurrent instances cannot overshoot the limit.
var hitScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local allowed = 0
if count < limit then
  count = redis.call('INCR', KEYS[1])
  allowed = 1
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], window)
  ttl = window
end
return {count, ttl, allowed}
`)

// RedisStore shares counters between instances. Expiry is delegated to Redis.
type RedisStore struct {
	client redis.Scripter
	prefix string
}

func NewRedisStore(client redis.Scripter, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (model.RateLimitRecord, bool, error) {
	vals, err := hitScript.Run(ctx, s.client, []string{s.prefix + key}, limit, window.Milliseconds()).Int64Slice()
	if err != nil {
		return model.RateLimitRecord{}, false, fmt.Errorf("redis rate limit hit: %w", err)
	}
	return decodeHit(key, vals, now)
}

func decodeHit(key string, vals []int64, now time.Time) (model.RateLimitRecord, bool, error) {
	if len(vals) != 3 {
		return model.RateLimitRecord{}, false, fmt.Errorf("redis rate limit hit: unexpected reply of %d values", len(vals))
	}
	return model.RateLimitRecord{
		Key:           key,
		Count:         int(vals[0]),
		WindowResetAt: now.Add(time.Duration(vals[1]) * time.Millisecond),
	}, vals[2] == 1, nil
}

// Sweep is a no-op: keys carry their own TTL.
func (s *RedisStore) Sweep(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
