// Package ratelimit implements sliding-window admission per client address.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrRateLimited is returned when a policy rejects a request.
var ErrRateLimited = errors.New("rate limit exceeded")

// Policy names a sliding window and its cap.
type Policy struct {
	// Name scopes counter keys and labels metrics, e.g. "api" or "generation".
	Name    string
	Limit   int
	Window  time.Duration
	Message string
}

// Default window lengths.
const (
	GlobalWindow     = 15 * time.Minute
	GenerationWindow = 5 * time.Minute
)

// Advisory messages returned with 429 responses.
const (
	GlobalMessage     = "Too many requests from this IP, please try again later."
	GenerationMessage = "Too many generation requests, please try again later."
)

// Global returns the policy applied to every request.
func Global(limit int) Policy {
	return Policy{Name: "api", Limit: limit, Window: GlobalWindow, Message: GlobalMessage}
}

// Generation returns the stricter policy in front of the generation endpoints.
func Generation(limit int) Policy {
	return Policy{Name: "generation", Limit: limit, Window: GenerationWindow, Message: GenerationMessage}
}

// Result is the outcome of a single hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest counted request leaves the window.
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Counter records a hit for key and reports whether it fits under limit
// within the trailing window. Rejected hits are not counted.
type Counter interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// Limiter applies a Policy over a Counter.
type Limiter struct {
	policy  Policy
	counter Counter
}

// NewLimiter creates a Limiter.
func NewLimiter(policy Policy, counter Counter) *Limiter {
	return &Limiter{policy: policy, counter: counter}
}

// Policy returns the limiter's policy.
func (l *Limiter) Policy() Policy {
	return l.policy
}

// Allow counts one request from client.
// A non-positive limit disables the policy.
func (l *Limiter) Allow(ctx context.Context, client string) (Result, error) {
	if l.policy.Limit <= 0 {
		return Result{Allowed: true}, nil
	}
	return l.counter.Hit(ctx, l.policy.Name+":"+client, l.policy.Limit, l.policy.Window)
}
