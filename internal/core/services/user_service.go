package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
	"github.com/spendmeter/spendmeter_backend/internal/utils"
)

// userService implements the UserSvcFacade.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
	clock    civiltime.Clock
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepository, clock civiltime.Clock) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, clock: clock}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, apperrors.NewValidationFailedError("email and name are required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to process password", err)
	}

	now := s.clock.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("an account with this email already exists")
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "User registered", slog.String("user_id", user.UserID))
	return &user, nil
}

func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error as a wrong password so callers cannot probe emails.
			return nil, apperrors.NewUnauthenticatedError("invalid email or password")
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}

	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthenticatedError("invalid email or password")
	}
	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user for update", slog.String("user_id", userID))
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("name must not be empty")
		}
		user.Name = name
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user", slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

func (s *userService) FindOrCreateGoogleUser(ctx context.Context, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewValidationFailedError("google account has no email")
	}

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up google user")
		return nil, err
	}

	now := s.clock.Now()
	newUser := domain.User{
		UserID: uuid.NewString(),
		Email:  email,
		Name:   strings.TrimSpace(name),
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if newUser.Name == "" {
		newUser.Name = email
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Concurrent first sign-in created the account; re-read it.
			return s.userRepo.FindUserByEmail(ctx, email)
		}
		s.LogError(ctx, err, "Failed to create google user", slog.String("email", email))
		return nil, err
	}

	s.LogInfo(ctx, "User created via google sign-in", slog.String("user_id", newUser.UserID))
	return &newUser, nil
}

func (s *userService) SetRefreshTokenForUser(ctx context.Context, userID, rawToken string, expiresAt time.Time) error {
	hash := utils.HashRefreshToken(rawToken)
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, &hash, &expiresAt); err != nil {
		s.LogError(ctx, err, "Failed to store refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}

func (s *userService) ClearRefreshTokenForUser(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh token", slog.String("user_id", userID))
		return err
	}
	return nil
}
