package app

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Pinger is the minimal interface of a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// BuildReadinessChecks returns db and redis probes. A probe is nil when its
// backend is not configured, which drops it from /readyz.
func BuildReadinessChecks(pool Pinger, rdb RedisPinger) (dbCheck, redisCheck func(context.Context) error) {
	if pool != nil {
		dbCheck = pool.Ping
	}
	if rdb != nil {
		redisCheck = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return dbCheck, redisCheck
}
