package domain

import "time"

// User represents an account owner. Every other entity is scoped to exactly
// one user; there is no cross-user sharing.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"` // bcrypt; empty for OAuth-only users
	AuditFields

	// Refresh token state, stored hashed at rest.
	RefreshTokenHash       string     `json:"-"`
	RefreshTokenExpiryTime *time.Time `json:"-"`
}

// GoogleUserInfo mirrors the subset of the Google userinfo payload we consume.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
