// Package main is the entrypoint for the GenStudio API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/cache"
	"github.com/genstudio/genstudio/internal/config"
	"github.com/genstudio/genstudio/internal/generation"
	"github.com/genstudio/genstudio/internal/handler"
	"github.com/genstudio/genstudio/internal/metrics"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/ratelimit"
	"github.com/genstudio/genstudio/internal/repository"
	"github.com/genstudio/genstudio/internal/server"
	"github.com/genstudio/genstudio/internal/service"
)

// sweepInterval is how often idle in-memory rate counters are dropped.
const sweepInterval = time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", sanitizeError(err, cfg.DatabaseURL, cfg.RedisURL))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Apply schema
	if cfg.AutoMigrate {
		if err := repository.Migrate(cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			return err
		}
		logger.Info("database migrations applied")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	defer repo.Close()
	logger.Info("connected to database")

	recorder := metrics.NewPrometheus()

	// Rate counters live in Redis when configured, otherwise in process memory.
	var (
		counter     ratelimit.Counter
		cacheHealth handler.HealthChecker
	)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	if cfg.RedisURL != "" {
		cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.WithKeyPrefix(cfg.RedisKeyPrefix))
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return err
		}
		defer cacheClient.Close()
		logger.Info("connected to Redis")

		counter = ratelimit.NewRedisCounter(cacheClient)
		cacheHealth = cacheClient
	} else {
		memory := ratelimit.NewMemoryCounter()
		go memory.RunSweeper(sweepCtx, sweepInterval, ratelimit.GlobalWindow)
		counter = memory
		logger.Info("REDIS_URL not set, using in-memory rate limiting")
	}

	// Generation engine
	invoker := generation.NewInvoker(generation.InvokerConfig{
		EngineDir:   cfg.EngineDir,
		Interpreter: cfg.InterpreterPath,
		Logger:      logger,
		Metrics:     recorder,
	})
	backend := generation.NewProcessBackend(invoker)
	logger.Info("generation engine configured",
		"engine_dir", cfg.EngineDir,
		"interpreter", invoker.Interpreter(),
	)
	if cfg.HuggingFaceAPIKey == "" {
		logger.Warn("HUGGINGFACE_API_KEY is not set; text and image generation will fail")
	}

	// Initialize services
	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTExpiry)
	activityService := service.NewActivityService(repo, logger, recorder)
	accountService, err := service.NewAccountService(repo, tokens, logger)
	if err != nil {
		return err
	}

	// Initialize handlers
	security := middleware.DefaultSecurityConfig()
	security.IsDevelopment = cfg.IsDevelopment()
	security.MaxRequestBodySize = cfg.MaxRequestBodySize

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	health := handler.NewHealthHandler(logger,
		handler.Dependency{Name: "postgres", Checker: repo},
		handler.Dependency{Name: "redis", Checker: cacheHealth},
		handler.Dependency{Name: "engine", Checker: invoker},
	)

	router := handler.NewRouter(handler.RouterConfig{
		Logger:             logger,
		Metrics:            recorder,
		Verifier:           tokens,
		Handler:            handler.New(cfg.DemoMode),
		Health:             health,
		Generation:         handler.NewGenerationHandler(backend, activityService, logger),
		Accounts:           handler.NewAccountHandler(accountService, logger),
		Activity:           handler.NewActivityHandler(activityService, logger),
		MetricsHandler:     handler.NewMetricsHandler(recorder.Gatherer()),
		GlobalLimiter:      ratelimit.NewLimiter(ratelimit.Global(cfg.GlobalRateLimit()), counter),
		GenerationLimiter:  ratelimit.NewLimiter(ratelimit.Generation(cfg.GenerationRateLimit()), counter),
		Security:           security,
		CORS:               cors,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})

	// Create and run server
	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("rate-limit-sweeper", func(context.Context) error {
		stopSweeper()
		return nil
	})
	srv.OnShutdown("activity-recorder", activityService.Wait)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"demo_mode", cfg.DemoMode,
		"global_rate_limit", cfg.GlobalRateLimit(),
		"generation_rate_limit", cfg.GenerationRateLimit(),
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
