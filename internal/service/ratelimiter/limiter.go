// Package ratelimiter implements a Redis-backed token bucket shared by every
// server replica.
package ratelimiter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a client may spend cost tokens from a named bucket.
type Limiter interface {
	Allow(ctx context.Context, bucket, client string, cost int64) (allowed bool, retryAfter time.Duration, err error)
}

// BucketConfig is a token bucket: Capacity tokens, refilled at RefillRate per second.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64
}

// PerMinute returns a bucket allowing n requests per minute with a burst of n.
func PerMinute(n int) BucketConfig {
	if n <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{Capacity: int64(n), RefillRate: float64(n) / 60.0}
}

func (c BucketConfig) enabled() bool { return c.Capacity > 0 && c.RefillRate > 0 }

// RedisLimiter evaluates buckets atomically with a Lua script.
type RedisLimiter struct {
	rdb     redis.Scripter
	buckets map[string]BucketConfig
	script  *redis.Script
	// ttl expires idle client buckets.
	ttl time.Duration
	now func() time.Time
}

// NewRedisLimiter returns nil when rdb is nil; a nil *RedisLimiter allows everything.
func NewRedisLimiter(rdb redis.Scripter, buckets map[string]BucketConfig) *RedisLimiter {
	if rdb == nil {
		return nil
	}
	cp := make(map[string]BucketConfig, len(buckets))
	for k, v := range buckets {
		cp[k] = v
	}
	return &RedisLimiter{
		rdb:     rdb,
		buckets: cp,
		script:  redis.NewScript(tokenBucketScript),
		ttl:     10 * time.Minute,
		now:     time.Now,
	}
}

// KEYS[1] bucket hash; ARGV capacity, refill/sec, now (sec), cost, ttl (sec).
// Returns {allowed, tokens_left, retry_after_sec} with floats as strings.
const tokenBucketScript = `
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local cost = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local data = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(data[1]) or capacity
local ts = tonumber(data[2]) or now

local delta = math.max(0, now - ts)
tokens = math.min(capacity, tokens + delta * rate)

local allowed = 0
local wait = 0
if tokens >= cost then
  tokens = tokens - cost
  allowed = 1
else
  wait = (cost - tokens) / rate
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("EXPIRE", KEYS[1], ttl)
return { allowed, tostring(tokens), tostring(wait) }
`

// Allow fails open: unknown buckets, a nil limiter, and Redis errors all allow
// the request. Redis errors are still returned so callers can log them.
func (l *RedisLimiter) Allow(ctx context.Context, bucket, client string, cost int64) (bool, time.Duration, error) {
	if l == nil {
		return true, 0, nil
	}
	cfg, ok := l.buckets[bucket]
	if !ok || !cfg.enabled() {
		return true, 0, nil
	}
	if cost <= 0 {
		cost = 1
	}
	now := float64(l.now().UnixNano()) / 1e9
	res, err := l.script.Run(ctx, l.rdb, []string{bucketKey(bucket, client)},
		cfg.Capacity, cfg.RefillRate, now, cost, int64(l.ttl.Seconds())).Slice()
	if err != nil {
		return true, 0, fmt.Errorf("op=ratelimiter.Allow bucket=%s: %w", bucket, err)
	}
	if len(res) < 3 {
		slog.Warn("rate limiter unexpected script result", slog.String("bucket", bucket), slog.Any("result", res))
		return true, 0, nil
	}
	allowed := toInt64(res[0]) == 1
	wait := toFloat64(res[2])
	if math.IsNaN(wait) || wait < 0 {
		wait = 0
	}
	return allowed, time.Duration(math.Ceil(wait*1000)) * time.Millisecond, nil
}

func bucketKey(bucket, client string) string { return "rate:" + bucket + ":" + client }

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case string:
		var f float64
		if _, err := fmt.Sscan(t, &f); err != nil {
			return math.NaN()
		}
		return f
	case int64:
		return float64(t)
	case float64:
		return t
	default:
		return math.NaN()
	}
}
