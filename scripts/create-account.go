package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/repository"
	"github.com/genstudio/genstudio/internal/service"
)

type output struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Secret used to sign the session token")
		username    = flag.String("username", "demo", "Account username")
		email       = flag.String("email", "demo@genstudio.local", "Account email")
		password    = flag.String("password", os.Getenv("ACCOUNT_PASSWORD"), "Account password (or ACCOUNT_PASSWORD)")
		expiry      = flag.Duration("expiry", 24*time.Hour, "Token lifetime")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *jwtSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	if err := validate(*username, *email, *password); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts, err := service.NewAccountService(repo, auth.NewTokenManager([]byte(*jwtSecret), *expiry), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	session, err := accounts.Register(ctx, service.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Existing account: sign in with the given password instead.
		session, err = accounts.Login(ctx, *username, *password)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "create account:", err)
		os.Exit(1)
	}

	out := output{
		UserID:   session.Account.ID,
		Username: session.Account.Username,
		Email:    session.Account.Email,
		Token:    session.Token,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func validate(username, email, password string) error {
	if err := middleware.ValidateUsername(username); err != nil {
		return err
	}
	if err := middleware.ValidateEmail(email); err != nil {
		return err
	}
	return middleware.ValidatePassword(password)
}
