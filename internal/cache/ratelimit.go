package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// rateLimitNamespace groups sliding-window counters under the cache prefix.
const rateLimitNamespace = "ratelimit"

// SlidingWindowResult contains the result of a sliding-window hit.
type SlidingWindowResult struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// slidingWindowScript keeps one sorted-set member per admitted request,
// scored by its arrival time in milliseconds.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])       -- current time in ms
	local window = tonumber(ARGV[2])    -- window length in ms
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	-- Drop requests that have left the window
	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

	local count = redis.call('ZCARD', key)
	local allowed = 0

	if count < limit then
		redis.call('ZADD', key, now, member)
		count = count + 1
		allowed = 1
	end

	local reset = now + window
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	if #oldest > 0 then
		reset = tonumber(oldest[2]) + window
	end

	redis.call('PEXPIRE', key, window)

	local remaining = limit - count
	if remaining < 0 then
		remaining = 0
	end

	return {allowed, remaining, reset}
`)

// SlidingWindowHit counts one request for id if fewer than limit requests
// were admitted within the trailing window. The id is hashed before use.
func (c *Cache) SlidingWindowHit(ctx context.Context, id string, limit int, window time.Duration) (*SlidingWindowResult, error) {
	now := time.Now()
	key := c.key(rateLimitNamespace, hashIP(id))

	result, err := slidingWindowScript.Run(ctx, c.client,
		[]string{key},
		now.UnixMilli(), window.Milliseconds(), limit, uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("sliding window script: %w", err)
	}

	resetAt := time.UnixMilli(result[2])
	res := &SlidingWindowResult{
		Allowed:   result[0] == 1,
		Remaining: result[1],
		ResetAt:   resetAt,
	}
	if !res.Allowed {
		res.RetryAfter = resetAt.Sub(now)
	}
	return res, nil
}

// ResetSlidingWindow forgets every admitted request for id.
func (c *Cache) ResetSlidingWindow(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(rateLimitNamespace, hashIP(id))).Err(); err != nil {
		return fmt.Errorf("reset sliding window: %w", err)
	}
	return nil
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
