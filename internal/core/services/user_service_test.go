package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/core/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/utils"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshToken(ctx context.Context, userID string, tokenHash *string, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresAt)
	return args.Error(0)
}

// --- Test Suite ---
type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	now      time.Time
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.now = time.Date(2026, time.February, 15, 8, 0, 0, 0, time.UTC)
	suite.service = services.NewUserService(suite.mockRepo, fixedClock{t: suite.now})
}

// --- Test Cases ---

func (suite *UserServiceTestSuite) TestRegisterUser_Success() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Email:    "Person@Example.com",
		Name:     "Person",
		Password: "correct-horse-battery",
	}

	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "person@example.com" &&
			u.Name == "Person" &&
			u.PasswordHash != "" &&
			utils.CheckPasswordHash(req.Password, u.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.Equal("person@example.com", user.Email)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Email:    "person@example.com",
		Name:     "Person",
		Password: "correct-horse-battery",
	}

	suite.mockRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	password := "correct-horse-battery"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Email: "person@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindUserByEmail", ctx, "person@example.com").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "person@example.com", password)

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("right-password")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: uuid.NewString(), Email: "person@example.com", PasswordHash: hash}

	suite.mockRepo.On("FindUserByEmail", ctx, "person@example.com").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "person@example.com", "wrong-password")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailIsUnauthenticated() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "nobody@example.com", "whatever")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_OAuthOnlyAccount() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Email: "person@example.com", PasswordHash: ""}

	suite.mockRepo.On("FindUserByEmail", ctx, "person@example.com").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "person@example.com", "anything")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_Existing() {
	ctx := context.Background()
	stored := &domain.User{UserID: uuid.NewString(), Email: "person@example.com"}

	suite.mockRepo.On("FindUserByEmail", ctx, "person@example.com").Return(stored, nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, "Person@Example.com", "Person")

	suite.Require().NoError(err)
	suite.Equal(stored.UserID, user.UserID)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveUser")
}

func (suite *UserServiceTestSuite) TestFindOrCreateGoogleUser_CreatesOnFirstSignIn() {
	ctx := context.Background()

	suite.mockRepo.On("FindUserByEmail", ctx, "person@example.com").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == "person@example.com" && u.Name == "Person" && u.PasswordHash == ""
	})).Return(nil).Once()

	user, err := suite.service.FindOrCreateGoogleUser(ctx, "person@example.com", "Person")

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestSetRefreshTokenForUser_StoresHash() {
	ctx := context.Background()
	userID := uuid.NewString()
	raw := "raw-refresh-token"
	expiresAt := suite.now.Add(7 * 24 * time.Hour)
	expectedHash := utils.HashRefreshToken(raw)

	suite.mockRepo.On("UpdateRefreshToken", ctx, userID, &expectedHash, &expiresAt).Return(nil).Once()

	err := suite.service.SetRefreshTokenForUser(ctx, userID, raw, expiresAt)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestClearRefreshTokenForUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockRepo.On("UpdateRefreshToken", ctx, userID, (*string)(nil), (*time.Time)(nil)).Return(nil).Once()

	err := suite.service.ClearRefreshTokenForUser(ctx, userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
