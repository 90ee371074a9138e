package middleware

import (
	"log/slog"
	"net/http"

	"github.com/genstudio/genstudio/internal/auth"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier auth.TokenVerifier
}

// OptionalAuth resolves the caller's identity and stores it in the request
// context. It never rejects: a missing or invalid token continues as
// anonymous.
func OptionalAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.ResolveIdentity(cfg.Verifier, r.Header.Get("Authorization"))
			reportIdentity(r.Context(), identity)

			if identity.State == auth.InvalidToken {
				cfg.Logger.Debug("invalid token on optional auth route",
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.ResolveIdentity(cfg.Verifier, r.Header.Get("Authorization"))
			reportIdentity(r.Context(), identity)

			if !identity.IsAuthenticated() {
				reason := "missing_token"
				message := "Access token required"
				if identity.State == auth.InvalidToken {
					reason = "invalid_token"
					message = "Invalid or expired token"
				}

				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, message, "")
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
