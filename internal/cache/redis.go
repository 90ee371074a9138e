// Package cache provides the optional Redis layer shared between API instances.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key this package writes.
const DefaultKeyPrefix = "genstudio:"

// Cache wraps a Redis client.
type Cache struct {
	client    *redis.Client
	keyPrefix string
}

// Option adjusts the connection before it is opened.
type Option func(*settings)

type settings struct {
	keyPrefix    string
	poolSize     int
	minIdleConns int
	dialTimeout  time.Duration
}

func defaultSettings() settings {
	return settings{
		keyPrefix:    DefaultKeyPrefix,
		poolSize:     10,
		minIdleConns: 2,
		dialTimeout:  5 * time.Second,
	}
}

// WithKeyPrefix lets several deployments share one Redis database.
func WithKeyPrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" && !strings.HasSuffix(prefix, ":") {
			prefix += ":"
		}
		s.keyPrefix = prefix
	}
}

// WithPoolSize sets the maximum number of pooled connections.
func WithPoolSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, redisURL string, opts ...Option) (*Cache, error) {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.PoolSize = cfg.poolSize
	redisOpts.MinIdleConns = cfg.minIdleConns
	redisOpts.DialTimeout = cfg.dialTimeout
	redisOpts.PoolTimeout = 4 * time.Second
	redisOpts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(redisOpts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Cache{client: client, keyPrefix: cfg.keyPrefix}, nil
}

// key joins the namespace prefix with parts.
func (c *Cache) key(parts ...string) string {
	return c.keyPrefix + strings.Join(parts, ":")
}

// Ping checks Redis connectivity. It serves the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
