package dto

import "time"

// LoginResponse returns the access token; the refresh token travels in an
// HTTP-only cookie set by the handler.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        UserResponse `json:"user"`
}
