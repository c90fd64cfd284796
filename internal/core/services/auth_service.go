package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
	"github.com/spendmeter/spendmeter_backend/internal/platform/config"
	"github.com/spendmeter/spendmeter_backend/internal/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// tokenService implements the TokenSvcFacade with HMAC JWTs for access tokens
// and opaque random strings for refresh tokens.
type tokenService struct {
	BaseService
	userRepo portsrepo.UserRepository
	cfg      *config.Config
	clock    civiltime.Clock
}

// NewTokenService creates the token service.
func NewTokenService(userRepo portsrepo.UserRepository, cfg *config.Config, clock civiltime.Clock) portssvc.TokenSvcFacade {
	return &tokenService{userRepo: userRepo, cfg: cfg, clock: clock}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiresAt := s.clock.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token")
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate refresh token")
		return "", time.Time{}, err
	}
	expiresAt := s.clock.Now().Add(s.cfg.RefreshTokenExpiryDuration)
	return raw, expiresAt, nil
}

func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthenticatedError("invalid refresh token")
		}
		s.LogError(ctx, err, "Failed to load user for refresh token validation")
		return nil, err
	}

	if user.RefreshTokenHash == "" || !utils.CompareRefreshTokenHash(refreshTokenString, user.RefreshTokenHash) {
		return nil, apperrors.NewUnauthenticatedError("invalid refresh token")
	}
	if user.RefreshTokenExpiryTime == nil || s.clock.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "refresh token expired", apperrors.ErrRefreshTokenExpired)
	}
	return user, nil
}

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade using
// the standard oauth2 code flow plus direct ID-token validation.
type googleOAuthHandlerService struct {
	BaseService
	oauthConfig *oauth2.Config
	clientID    string
}

// NewGoogleOAuthHandlerService creates the Google OAuth handler service.
func NewGoogleOAuthHandlerService(cfg *config.Config) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		clientID: cfg.GoogleClientID,
	}
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

func (s *googleOAuthHandlerService) GenerateStateString(ctx context.Context) (string, error) {
	return utils.GenerateSecureRandomString(16)
}

func (s *googleOAuthHandlerService) GetGoogleLoginURL(ctx context.Context, state string) string {
	return s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (s *googleOAuthHandlerService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.LogError(ctx, err, "Failed to exchange google auth code")
		return nil, apperrors.NewUnauthenticatedError("invalid authorization code")
	}
	return token, nil
}

func (s *googleOAuthHandlerService) GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch google user info")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
		s.LogError(ctx, err, "Unexpected google user info response")
		return nil, err
	}

	var info domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		s.LogError(ctx, err, "Failed to decode google user info")
		return nil, err
	}
	return &info, nil
}

func (s *googleOAuthHandlerService) ValidateGoogleIDToken(ctx context.Context, idTokenString string) (*idtoken.Payload, error) {
	payload, err := idtoken.Validate(ctx, idTokenString, s.clientID)
	if err != nil {
		s.LogWarn(ctx, "Google ID token validation failed")
		return nil, apperrors.NewUnauthenticatedError("invalid google id token")
	}
	return payload, nil
}
