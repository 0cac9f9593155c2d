package model

import "time"

// Session is the identity of whoever is logged in to this running instance.
// It is a copy of the user record taken at login time. ID changes on every
// login, even when the same user logs in again.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	StartedAt time.Time `json:"started_at"`
}

func (s *Session) HasRole(role string) bool {
	return s != nil && s.User.Role == role
}

type LoginRequest struct {
	Name string `json:"name" binding:"required"`
	Pass string `json:"pass" binding:"required"`
}

type SignUpRequest struct {
	Name  string `json:"name" binding:"required" validate:"required"`
	Phone string `json:"phone" binding:"required" validate:"required"`
	Pass  string `json:"pass" binding:"required" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPass     string `json:"old_pass"`
	NewPass     string `json:"new_pass" binding:"required"`
	ConfirmPass string `json:"confirm_pass"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserView  `json:"user"`
}
