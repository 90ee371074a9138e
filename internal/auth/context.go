package auth

import (
	"context"
	"strings"
)

// IdentityState is the outcome of resolving a caller from a bearer token.
type IdentityState int

const (
	// Anonymous means no bearer token was presented.
	Anonymous IdentityState = iota
	// Authenticated means a valid token was presented.
	Authenticated
	// InvalidToken means a token was presented but failed verification.
	// Endpoints with optional auth treat it exactly like Anonymous.
	InvalidToken
)

// String returns the state name used in logs.
func (s IdentityState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case InvalidToken:
		return "invalid_token"
	default:
		return "anonymous"
	}
}

// Identity is the resolved caller of a request.
type Identity struct {
	State     IdentityState
	AccountID string
	Username  string
}

// IsAuthenticated reports whether the caller presented a valid token.
func (i Identity) IsAuthenticated() bool {
	return i.State == Authenticated && i.AccountID != ""
}

// ResolveIdentity turns an Authorization header value into an Identity.
// It never fails: absent and invalid tokens resolve to non-authenticated states.
func ResolveIdentity(verifier TokenVerifier, authorization string) Identity {
	token := BearerToken(authorization)
	if token == "" {
		return Identity{State: Anonymous}
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		return Identity{State: InvalidToken}
	}

	return Identity{
		State:     Authenticated,
		AccountID: claims.Subject,
		Username:  claims.Username,
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(authorization string) string {
	const prefix = "Bearer "
	if len(authorization) < len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(authorization[len(prefix):])
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const identityContextKey contextKey = "identity"

// ContextWithIdentity adds the resolved Identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns an Anonymous identity if none was set.
func IdentityFromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(identityContextKey).(Identity)
	if !ok {
		return Identity{State: Anonymous}
	}
	return id
}

// AccountIDFromContext returns the authenticated account id, or "" if the caller is not authenticated.
func AccountIDFromContext(ctx context.Context) string {
	id := IdentityFromContext(ctx)
	if !id.IsAuthenticated() {
		return ""
	}
	return id.AccountID
}
