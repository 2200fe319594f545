package dto

import "time"

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AccountResponse is the public view of an account.
type AccountResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionResponse standard response for auth endpoints.
type SessionResponse struct {
	User      AccountResponse `json:"user"`
	Token     string          `json:"token,omitempty"`
	ExpiresAt time.Time       `json:"expires_at"`
}
