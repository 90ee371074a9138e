// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/genstudio/genstudio/internal/model"
	"github.com/genstudio/genstudio/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// schemaVersions lists migration prefixes in apply order.
var schemaVersions = []string{"000001_accounts", "000002_activities"}

// ResetSchema drops every table in reverse order and reapplies the
// embedded up migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i := len(schemaVersions) - 1; i >= 0; i-- {
		if err := execMigration(ctx, pool, schemaVersions[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, version := range schemaVersions {
		if err := execMigration(ctx, pool, version+".up.sql"); err != nil {
			return err
		}
	}
	// golang-migrate bookkeeping would otherwise claim the schema is current.
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return fmt.Errorf("drop schema_migrations: %w", err)
	}
	return nil
}

func execMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	sql, err := migrations.FS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestAccount creates an account with a unique username and email.
// The password hash is a placeholder and will not verify.
func NewTestAccount(t testing.TB, prefix string) *model.Account {
	t.Helper()
	now := time.Now().UTC()
	id := ulid.Make().String()
	name := prefix + "_" + strings.ToLower(id[len(id)-8:])
	return &model.Account{
		ID:           id,
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderpla",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestActivity creates an activity record for userID.
func NewTestActivity(t testing.TB, userID string, tag model.ActivityTag) *model.ActivityRecord {
	t.Helper()
	return &model.ActivityRecord{
		ID:         ulid.Make().String(),
		UserID:     userID,
		Capability: tag,
		InputData:  `{"prompt":"hello"}`,
		OutputData: `{"generatedText":"world"}`,
		CreatedAt:  time.Now().UTC(),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
