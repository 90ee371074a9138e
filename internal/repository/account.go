package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/genstudio/genstudio/internal/model"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrUsernameExists  = fmt.Errorf("%w: username already exists", ErrDuplicateKey)
	ErrEmailExists     = fmt.Errorf("%w: email already exists", ErrDuplicateKey)
)

const uniqueViolation = "23505"

// CreateAccount inserts a new account.
// Returns ErrUsernameExists or ErrEmailExists (both wrap ErrDuplicateKey) on conflict.
func (r *Repository) CreateAccount(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = account.CreatedAt
	}

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccountByUsername retrieves an account by username.
func (r *Repository) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`

	return scanAccount(r.pool.QueryRow(ctx, query, username))
}

// GetAccountByID retrieves an account by id.
func (r *Repository) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	var account model.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	return &account, nil
}

// duplicateKeyError maps a unique violation to the matching sentinel, or returns nil.
func duplicateKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}

	switch pgErr.ConstraintName {
	case "accounts_email_key":
		return ErrEmailExists
	case "accounts_username_key":
		return ErrUsernameExists
	default:
		return ErrDuplicateKey
	}
}
