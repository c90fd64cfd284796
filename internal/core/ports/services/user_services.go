package services

import (
	"context"
	"time"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// UserSvcFacade manages user accounts and credentials.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// AuthenticateUser verifies email/password credentials and returns the
	// user, or apperrors.ErrUnauthenticated on mismatch.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// FindOrCreateGoogleUser resolves a verified Google identity to a local
	// account, creating one on first sign-in.
	FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error)

	// SetRefreshTokenForUser stores the hash of rawToken with its expiry.
	SetRefreshTokenForUser(ctx context.Context, userID, rawToken string, expiresAt time.Time) error

	// ClearRefreshTokenForUser drops any stored refresh token (logout).
	ClearRefreshTokenForUser(ctx context.Context, userID string) error
}
