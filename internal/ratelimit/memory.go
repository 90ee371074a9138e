package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter keeps per-key request timestamps in process memory.
type MemoryCounter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

// NewMemoryCounter creates a counter using the wall clock.
func NewMemoryCounter() *MemoryCounter {
	return NewMemoryCounterWithClock(time.Now)
}

// NewMemoryCounterWithClock creates a counter reading time from now.
func NewMemoryCounterWithClock(now func() time.Time) *MemoryCounter {
	return &MemoryCounter{
		hits: make(map[string][]time.Time),
		now:  now,
	}
}

// Hit implements Counter.
func (c *MemoryCounter) Hit(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := c.now()
	cutoff := now.Add(-window)

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.hits[key][:0]
	for _, ts := range c.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= limit {
		c.hits[key] = kept
		resetAt := kept[0].Add(window)
		return Result{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}

	kept = append(kept, now)
	c.hits[key] = kept

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(kept),
		ResetAt:   kept[0].Add(window),
	}, nil
}

// Sweep drops keys whose newest hit is older than window.
func (c *MemoryCounter) Sweep(window time.Duration) int {
	cutoff := c.now().Add(-window)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, hits := range c.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(c.hits, key)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (c *MemoryCounter) RunSweeper(ctx context.Context, interval, window time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep(window)
		}
	}
}
