package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/repository"
	"github.com/genstudio/genstudio/internal/testutil/fakestore"
)

func newTestAccountService(t *testing.T) (*AccountService, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager([]byte("service-test-secret"), time.Hour)
	svc, err := NewAccountService(fakestore.New(), tokens, discardLogger())
	require.NoError(t, err)
	return svc, tokens
}

func TestAccountService_RegisterAndLogin(t *testing.T) {
	svc, tokens := newTestAccountService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "alice@example.com", session.Account.Email)
	assert.NotEqual(t, "secret1", session.Account.PasswordHash)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, claims.Subject)
	assert.Equal(t, "alice", claims.Username)

	login, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, session.Account.ID, login.Account.ID)

	profile, err := svc.Profile(ctx, session.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
}

func TestAccountService_RegisterDuplicate(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)
	assert.ErrorIs(t, err, repository.ErrUsernameExists)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob2", Email: "BOB@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, repository.ErrEmailExists)
}

func TestAccountService_LoginFailures(t *testing.T) {
	svc, _ := newTestAccountService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "carol", Email: "carol@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "carol", "wrong-password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAccountService_ProfileNotFound(t *testing.T) {
	svc, _ := newTestAccountService(t)

	_, err := svc.Profile(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
