package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/metrics"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/ratelimit"
)

// RouterConfig holds everything NewRouter wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  metrics.Recorder
	Verifier auth.TokenVerifier

	Handler    *Handler
	Health     *HealthHandler
	Generation *GenerationHandler
	Accounts   *AccountHandler
	Activity   *ActivityHandler
	// MetricsHandler serves /metrics; the route is omitted when nil.
	MetricsHandler http.Handler

	// GlobalLimiter applies to every /api route; GenerationLimiter to /api/ai only.
	GlobalLimiter     *ratelimit.Limiter
	GenerationLimiter *ratelimit.Limiter

	Security           middleware.SecurityConfig
	CORS               middleware.CORSConfig
	MaxRequestBodySize int64
	// TrustProxyHeaders rewrites RemoteAddr from proxy headers before rate limiting.
	TrustProxyHeaders  bool
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	r := chi.NewRouter()

	// Global middleware
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Security(cfg.Security))
	r.Use(middleware.CORS(cfg.CORS))

	// Probes and service info
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)
	r.Get("/", cfg.Handler.Hello)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	authCfg := middleware.AuthConfig{
		Logger:   cfg.Logger,
		Verifier: cfg.Verifier,
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.MaxRequestBodySize > 0 {
			r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		}
		if cfg.GlobalLimiter != nil {
			r.Use(middleware.RateLimit(middleware.RateLimitConfig{
				Logger:  cfg.Logger,
				Limiter: cfg.GlobalLimiter,
				Metrics: recorder,
			}))
		}

		// Generation: optional auth decides only whether activity is recorded
		r.Route("/ai", func(r chi.Router) {
			if cfg.GenerationLimiter != nil {
				r.Use(middleware.RateLimit(middleware.RateLimitConfig{
					Logger:  cfg.Logger,
					Limiter: cfg.GenerationLimiter,
					Metrics: recorder,
				}))
			}
			r.Use(middleware.OptionalAuth(authCfg))

			r.Post("/text", cfg.Generation.Text)
			r.Post("/image", cfg.Generation.Image)
			r.Post("/voice", cfg.Generation.Voice)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.Accounts.Register)
			r.Post("/login", cfg.Accounts.Login)
			r.With(middleware.RequireAuth(authCfg)).Get("/profile", cfg.Accounts.Profile)
		})

		r.Route("/activity", func(r chi.Router) {
			r.Use(middleware.RequireAuth(authCfg))
			r.Get("/", cfg.Activity.List)
			r.Delete("/{id}", cfg.Activity.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(cfg.Handler.NotFound)
	r.MethodNotAllowed(cfg.Handler.MethodNotAllowed)

	return r
}
