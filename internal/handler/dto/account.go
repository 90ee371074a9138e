package dto

import "github.com/genstudio/genstudio/internal/model"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries a session token and the account it belongs to.
type AuthResponse struct {
	Token string                `json:"token"`
	User  model.AccountResponse `json:"user"`
}

// ProfileResponse is the body of GET /api/auth/profile.
type ProfileResponse struct {
	User model.AccountResponse `json:"user"`
}

// ActivityListResponse is the body of GET /api/activity.
type ActivityListResponse struct {
	Activities []model.ActivityResponse `json:"activities"`
}

// ToActivityListResponse converts records, keeping an empty list non-nil.
func ToActivityListResponse(records []*model.ActivityRecord) ActivityListResponse {
	out := make([]model.ActivityResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.ToResponse())
	}
	return ActivityListResponse{Activities: out}
}
