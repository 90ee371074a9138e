package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/model"
	"github.com/genstudio/genstudio/internal/repository"
)

// AccountStore persists accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountID, username string) (string, error)
}

// AccountService handles registration, login and profile lookups.
type AccountService struct {
	store  AccountStore
	tokens TokenIssuer
	logger *slog.Logger

	// dummyHash is compared against when the username is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, tokens TokenIssuer, logger *slog.Logger) (*AccountService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dummy, err := auth.HashPassword("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AccountService{
		store:     store,
		tokens:    tokens,
		logger:    logger.With("component", "accounts"),
		dummyHash: dummy,
	}, nil
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Session is an account together with a freshly issued token.
type Session struct {
	Token   string
	Account *model.Account
}

// Register creates an account and issues its first token.
// Duplicate usernames or emails return errors wrapping repository.ErrDuplicateKey.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &model.Account{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("account registered",
		"user_id", account.ID,
		"username", account.Username,
	)

	return &Session{Token: token, Account: account}, nil
}

// Login verifies credentials and issues a token.
// Unknown usernames and wrong passwords both return auth.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*Session, error) {
	account, err := s.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			_ = auth.VerifyPassword(password, s.dummyHash)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, account.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("login failed", "username", username, "reason", "wrong_password")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &Session{Token: token, Account: account}, nil
}

// Profile returns the account for an authenticated caller.
func (s *AccountService) Profile(ctx context.Context, accountID string) (*model.Account, error) {
	return s.store.GetAccountByID(ctx, accountID)
}
