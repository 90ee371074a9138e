// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/handler/dto"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/model"
	"github.com/genstudio/genstudio/internal/repository"
)

// Version is reported by the service info endpoint.
const Version = "1.0.0"

// Handler serves the service-level endpoints.
type Handler struct {
	demoMode bool
}

// New creates a new Handler instance.
func New(demoMode bool) *Handler {
	return &Handler{demoMode: demoMode}
}

// Hello describes the service.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "GenStudio API",
		"version":      Version,
		"demoMode":     h.demoMode,
		"capabilities": model.Capabilities,
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Resource not found", "")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: errMsg, Message: message})
}

// errBodyTooLarge marks a body cut off by MaxBodySize.
var errBodyTooLarge = errors.New("request body too large")

// decodeJSON decodes a single JSON object from the request body.
// A well-formed body holding a value of the wrong type for a field yields a
// *middleware.ValidationError naming that field; dst is still filled as far
// as possible.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return &middleware.ValidationError{
				Field:   typeErr.Field,
				Message: fmt.Sprintf("%s must be %s", typeErr.Field, describeType(typeErr.Type)),
			}
		}
		return fmt.Errorf("decode body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("decode body: trailing data after JSON object")
	}
	return nil
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

// writeDecodeError maps a decodeJSON failure to a response.
func writeDecodeError(w http.ResponseWriter, err error) {
	var vErr *middleware.ValidationError
	switch {
	case errors.Is(err, errBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", "")
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "Validation failed", vErr.Message)
	default:
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "")
	}
}

// handleServiceError maps domain errors to HTTP responses.
// Generation failures are handled separately by GenerationHandler.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var vErr *middleware.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, "Validation failed", vErr.Message)
	case errors.Is(err, repository.ErrUsernameExists):
		writeError(w, http.StatusConflict, "Username already exists", "")
	case errors.Is(err, repository.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email already registered", "")
	case errors.Is(err, repository.ErrDuplicateKey):
		writeError(w, http.StatusConflict, "Account already exists", "")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", "")
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "Validation failed", "password must be at most 72 bytes")
	case errors.Is(err, repository.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "User not found", "")
	case errors.Is(err, repository.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "Activity not found", "")
	case errors.Is(err, repository.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Not allowed to modify this activity", "")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}
