// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	// Cache (Redis). Empty means rate counters are kept in process memory.
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"genstudio:"`

	// Session tokens
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. WriteTimeout 0 leaves generation calls unbounded.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Demo mode tightens every rate limit.
	DemoMode bool `env:"DEMO_MODE" envDefault:"false"`

	// Rate limiting (requests per client IP per window)
	RateLimitMax               int `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitDemoMax           int `env:"RATE_LIMIT_DEMO_MAX" envDefault:"50"`
	GenerationRateLimitMax     int `env:"GENERATION_RATE_LIMIT_MAX" envDefault:"20"`
	GenerationRateLimitDemoMax int `env:"GENERATION_RATE_LIMIT_DEMO_MAX" envDefault:"2"`

	// Generation engine
	EngineDir       string `env:"ENGINE_DIR" envDefault:"./engine"`
	InterpreterPath string `env:"INTERPRETER_PATH"`

	// HuggingFaceAPIKey is read by the engine scripts from the inherited environment.
	HuggingFaceAPIKey string `env:"HUGGINGFACE_API_KEY"`

	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GlobalRateLimit returns the /api request cap in effect.
func (c *Config) GlobalRateLimit() int {
	if c.DemoMode {
		return c.RateLimitDemoMax
	}
	return c.RateLimitMax
}

// GenerationRateLimit returns the /api/ai request cap in effect.
func (c *Config) GenerationRateLimit() int {
	if c.DemoMode {
		return c.GenerationRateLimitDemoMax
	}
	return c.GenerationRateLimitMax
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	var errs []error
	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT out of range: %d", c.AppPort))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	if c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}
	for name, v := range map[string]int{
		"RATE_LIMIT_MAX":                 c.RateLimitMax,
		"RATE_LIMIT_DEMO_MAX":            c.RateLimitDemoMax,
		"GENERATION_RATE_LIMIT_MAX":      c.GenerationRateLimitMax,
		"GENERATION_RATE_LIMIT_DEMO_MAX": c.GenerationRateLimitDemoMax,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	return errors.Join(errs...)
}

// Load reads .env files when present, then parses environment variables.
// Variables already set in the environment win over .env values.
// Returns an error if required variables are missing.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
