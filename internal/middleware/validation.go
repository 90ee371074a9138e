package middleware

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	// MaxPrimaryInputLength bounds prompts and voice text, in characters.
	MaxPrimaryInputLength = 1000

	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
	MaxEmailLength    = 254
)

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateRequiredText checks a required string field holding at most max characters.
func ValidateRequiredText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return invalid(field, "%s is required", field)
	}
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "%s must be at most %d characters", field, max)
	}
	return nil
}

// ValidateOneOf checks that value is one of allowed.
func ValidateOneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(field, "%s must be one of: %s", field, strings.Join(allowed, ", "))
}

// ValidateIntRange checks min <= value <= max.
func ValidateIntRange(field string, value, min, max int) error {
	if value < min || value > max {
		return invalid(field, "%s must be between %d and %d", field, min, max)
	}
	return nil
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername checks length and allowed characters.
func ValidateUsername(username string) error {
	n := len(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return invalid("username", "username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return invalid("username", "username may only contain letters, numbers and underscores")
	}
	return nil
}

// ValidateEmail checks for a bare address such as "a@example.com".
func ValidateEmail(email string) error {
	if email == "" || len(email) > MaxEmailLength {
		return invalid("email", "email must be a valid email address")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return invalid("email", "email must be a valid email address")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return invalid("password", "password must be at least %d characters", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return invalid("password", "password must be at most %d bytes", MaxPasswordLength)
	}
	return nil
}
