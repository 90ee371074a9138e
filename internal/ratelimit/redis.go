package ratelimit

import (
	"context"
	"time"

	"github.com/genstudio/genstudio/internal/cache"
)

// RedisCounter shares window state across instances through Redis.
type RedisCounter struct {
	cache *cache.Cache
}

// NewRedisCounter creates a counter backed by c.
func NewRedisCounter(c *cache.Cache) *RedisCounter {
	return &RedisCounter{cache: c}
}

// Hit implements Counter.
func (c *RedisCounter) Hit(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	res, err := c.cache.SlidingWindowHit(ctx, key, limit, window)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Allowed:    res.Allowed,
		Limit:      limit,
		Remaining:  int(res.Remaining),
		ResetAt:    res.ResetAt,
		RetryAfter: res.RetryAfter,
	}, nil
}
