package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genstudio/genstudio/internal/auth"
	"github.com/genstudio/genstudio/internal/middleware"
	"github.com/genstudio/genstudio/internal/repository"
)

func TestHandler_Hello(t *testing.T) {
	h := New(true)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Hello(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response struct {
		Message      string   `json:"message"`
		Version      string   `json:"version"`
		DemoMode     bool     `json:"demoMode"`
		Capabilities []string `json:"capabilities"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Version != Version {
		t.Errorf("unexpected version: %s", response.Version)
	}
	if !response.DemoMode {
		t.Error("expected demoMode true")
	}
	if len(response.Capabilities) != 3 {
		t.Errorf("expected 3 capabilities, got %v", response.Capabilities)
	}
}

func TestHandler_NotFound(t *testing.T) {
	h := New(true)

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["error"] != "Resource not found" {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New(true)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["error"] != "Method not allowed" {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"validation", middleware.ValidateRequiredText("prompt", "", 10), http.StatusBadRequest, "Validation failed"},
		{"username taken", fmt.Errorf("create: %w", repository.ErrUsernameExists), http.StatusConflict, "Username already exists"},
		{"email taken", repository.ErrEmailExists, http.StatusConflict, "Email already registered"},
		{"other duplicate", repository.ErrDuplicateKey, http.StatusConflict, "Account already exists"},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"account missing", repository.ErrAccountNotFound, http.StatusNotFound, "User not found"},
		{"activity missing", repository.ErrActivityNotFound, http.StatusNotFound, "Activity not found"},
		{"not owner", repository.ErrNotOwner, http.StatusForbidden, "Not allowed to modify this activity"},
		{"unexpected", errors.New("pool closed"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, discardLogger(), tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
			if strings.Contains(body["message"], "pool closed") {
				t.Error("internal error detail leaked to client")
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr bool
		tooBig  bool
	}{
		{"single object", `{"prompt":"hi"}`, 0, false, false},
		{"trailing data", `{"prompt":"hi"}{"prompt":"again"}`, 0, true, false},
		{"malformed", `{"prompt":`, 0, true, false},
		{"over limit", `{"prompt":"` + strings.Repeat("x", 64) + `"}`, 16, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ai/text", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, tt.limit)
			}

			var dst struct {
				Prompt string `json:"prompt"`
			}
			err := decodeJSON(req, &dst)

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if errors.Is(err, errBodyTooLarge) != tt.tooBig {
				t.Errorf("errBodyTooLarge = %v, want %v", errors.Is(err, errBodyTooLarge), tt.tooBig)
			}
		})
	}
}

func TestDecodeJSON_WrongTypeNamesField(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
		wantMsg   string
	}{
		{"number for string", `{"prompt":123}`, "prompt", "prompt must be a string"},
		{"string for integer", `{"prompt":"hi","maxTokens":"50"}`, "maxTokens", "maxTokens must be an integer"},
		{"fraction for integer", `{"prompt":"hi","maxTokens":1.5}`, "maxTokens", "maxTokens must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ai/text", strings.NewReader(tt.body))

			var dst struct {
				Prompt    string `json:"prompt"`
				MaxTokens *int   `json:"maxTokens"`
			}
			err := decodeJSON(req, &dst)

			var vErr *middleware.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want *middleware.ValidationError", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", vErr.Field, tt.wantField)
			}
			if vErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", vErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestWriteDecodeError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantError   string
		wantMessage string
	}{
		{"too large", errBodyTooLarge, http.StatusRequestEntityTooLarge, "Request body too large", ""},
		{"wrong type", &middleware.ValidationError{Field: "email", Message: "email must be a string"}, http.StatusBadRequest, "Validation failed", "email must be a string"},
		{"syntax", errors.New("decode body: unexpected EOF"), http.StatusBadRequest, "Invalid JSON body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeDecodeError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Errorf("error = %q, want %q", body["error"], tt.wantError)
			}
			if body["message"] != tt.wantMessage {
				t.Errorf("message = %q, want %q", body["message"], tt.wantMessage)
			}
		})
	}
}
