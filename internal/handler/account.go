package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/handler/dto"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/model"
	"github.com/genstudio/genstudio/internal/service"
)

// AccountService is the account behaviour the handlers depend on.
type AccountService interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, username, password string) (*service.Session, error)
	Profile(ctx context.Context, accountID string) (*model.Account, error)
}

// AccountHandler handles registration, login and profile requests.
type AccountHandler struct {
	svc    AccountService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(svc AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{svc: svc, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := validateRegister(req); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	session, err := h.svc.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: session.Token,
		User:  session.Account.ToResponse(),
	})
}

// Login handles POST /api/auth/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Validation failed", "username and password are required")
		return
	}

	session, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: session.Token,
		User:  session.Account.ToResponse(),
	})
}

// Profile handles GET /api/auth/profile.
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.Profile(r.Context(), auth.AccountIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfileResponse{User: account.ToResponse()})
}

func validateRegister(req dto.RegisterRequest) error {
	if err := middleware.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := middleware.ValidateEmail(req.Email); err != nil {
		return err
	}
	return middleware.ValidatePassword(req.Password)
}
