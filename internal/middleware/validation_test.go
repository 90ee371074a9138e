package middleware

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRequiredText(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{"valid", "a cat in a hat", ""},
		{"empty", "", "prompt is required"},
		{"whitespace only", "   ", "prompt is required"},
		{"exactly max", strings.Repeat("a", MaxPrimaryInputLength), ""},
		{"over max", strings.Repeat("a", MaxPrimaryInputLength+1), "prompt must be at most 1000 characters"},
		// Counted in characters, not bytes.
		{"multibyte at max", strings.Repeat("é", MaxPrimaryInputLength), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequiredText("prompt", tt.value, MaxPrimaryInputLength)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOneOf(t *testing.T) {
	allowed := []string{"256x256", "512x512", "1024x1024"}

	if err := ValidateOneOf("size", "512x512", allowed); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateOneOf("size", "800x600", allowed)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if vErr.Field != "size" {
		t.Errorf("Field = %q, want size", vErr.Field)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError should wrap ErrValidation")
	}
	if !strings.Contains(vErr.Message, "256x256, 512x512, 1024x1024") {
		t.Errorf("Message should list allowed values, got %q", vErr.Message)
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{4000, false},
		{4001, true},
		{-5, true},
	}

	for _, tt := range tests {
		err := ValidateIntRange("maxTokens", tt.value, 1, 4000)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateIntRange(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "alice_01", false},
		{"min length", "abc", false},
		{"max length", strings.Repeat("a", MaxUsernameLength), false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", MaxUsernameLength+1), true},
		{"hyphen", "alice-01", true},
		{"space", "alice 01", true},
		{"unicode", "alicé", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"alice@example.com", false},
		{"a.b+tag@sub.example.org", false},
		{"", true},
		{"alice", true},
		{"alice@localhost", true},
		{"Alice <alice@example.com>", true},
		{"@example.com", true},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret"); err != nil {
		t.Errorf("6 chars should be valid: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("5 chars should be rejected")
	}
	if err := ValidatePassword(strings.Repeat("x", MaxPasswordLength+1)); err == nil {
		t.Error("passwords over bcrypt's limit should be rejected")
	}
}
