package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/handlers"
	"github.com/spendmeter/spendmeter_backend/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock PeriodService ---
type MockPeriodService struct {
	mock.Mock
}

func (m *MockPeriodService) GetActiveMonth(ctx context.Context, userID string) (*domain.Month, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Month), args.Error(1)
}
func (m *MockPeriodService) IsRolloverNeeded(ctx context.Context, userID string) (*portssvc.RolloverCheck, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.RolloverCheck), args.Error(1)
}
func (m *MockPeriodService) Rollover(ctx context.Context, userID string, label *string, limit *decimal.Decimal) (*portssvc.RolloverResult, error) {
	args := m.Called(ctx, userID, label, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.RolloverResult), args.Error(1)
}
func (m *MockPeriodService) SetActiveMonthLimit(ctx context.Context, userID string, limit decimal.Decimal) (*domain.Month, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Month), args.Error(1)
}
func (m *MockPeriodService) ListMonths(ctx context.Context, userID string, limit int) ([]domain.Month, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Month), args.Error(1)
}

var _ portssvc.PeriodSvcFacade = (*MockPeriodService)(nil)

// --- Mock RecurringService ---
type MockRecurringService struct {
	mock.Mock
}

func (m *MockRecurringService) ListTemplates(ctx context.Context, userID string) (*dto.ListRecurringTemplatesResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRecurringTemplatesResponse), args.Error(1)
}
func (m *MockRecurringService) CreateTemplate(ctx context.Context, userID string, req dto.CreateRecurringTemplateRequest) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockRecurringService) UpdateTemplate(ctx context.Context, userID, templateID string, req dto.UpdateRecurringTemplateRequest) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, userID, templateID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockRecurringService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	args := m.Called(ctx, userID, templateID)
	return args.Error(0)
}
func (m *MockRecurringService) EnsureApplied(ctx context.Context, userID, monthID string) (*portssvc.EnsureAppliedResult, error) {
	args := m.Called(ctx, userID, monthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.EnsureAppliedResult), args.Error(1)
}

var _ portssvc.RecurringSvcFacade = (*MockRecurringService)(nil)

// --- Test Suite ---
type MonthHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockPeriodService    *MockPeriodService
	mockRecurringService *MockRecurringService
	jwtSecret            string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *MonthHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "spendmeter-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *MonthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockPeriodService = new(MockPeriodService)
	suite.mockRecurringService = new(MockRecurringService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterMonthRoutes(v1, suite.mockPeriodService, suite.mockRecurringService)
}

func (suite *MonthHandlerTestSuite) doRequest(method, path, userID string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *MonthHandlerTestSuite) TestGetActiveMonth_Success() {
	userID := uuid.NewString()
	month := &domain.Month{
		MonthID:       uuid.NewString(),
		UserID:        userID,
		Label:         "Feb 2026",
		SpendingLimit: decimal.NewFromInt(1000),
		IsActive:      true,
		StartedAt:     time.Now(),
	}
	suite.mockPeriodService.On("GetActiveMonth", mock.Anything, userID).Return(month, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/months/active", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.MonthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(month.MonthID, res.MonthID)
	suite.Equal("Feb 2026", res.Label)
	suite.True(res.IsActive)
	suite.mockPeriodService.AssertExpectations(suite.T())
}

func (suite *MonthHandlerTestSuite) TestGetActiveMonth_NoToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/months/active", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPeriodService.AssertNotCalled(suite.T(), "GetActiveMonth")
}

func (suite *MonthHandlerTestSuite) TestRolloverCheck_Needed() {
	userID := uuid.NewString()
	check := &portssvc.RolloverCheck{
		Needed:             true,
		SuggestedLabel:     "Mar 2026",
		CurrentActiveLabel: "Feb 2026",
	}
	suite.mockPeriodService.On("IsRolloverNeeded", mock.Anything, userID).Return(check, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/months/rollover-check", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.RolloverCheckResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.True(res.Needed)
	suite.Equal("Mar 2026", res.SuggestedLabel)
	suite.Equal("Feb 2026", res.CurrentActiveLabel)
}

func (suite *MonthHandlerTestSuite) TestRollover_SuccessWithEmptyBody() {
	userID := uuid.NewString()
	result := &portssvc.RolloverResult{
		ClosedMonthID: uuid.NewString(),
		NewMonth: domain.Month{
			MonthID:       uuid.NewString(),
			UserID:        userID,
			Label:         "Mar 2026",
			SpendingLimit: decimal.NewFromInt(1500),
			IsActive:      true,
			StartedAt:     time.Now(),
		},
	}
	suite.mockPeriodService.On("Rollover", mock.Anything, userID, (*string)(nil), (*decimal.Decimal)(nil)).Return(result, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/months/rollover", userID, nil)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.RolloverResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(result.ClosedMonthID, res.ClosedMonthID)
	suite.Equal("Mar 2026", res.NewMonth.Label)
	suite.mockPeriodService.AssertExpectations(suite.T())
}

func (suite *MonthHandlerTestSuite) TestRollover_ConcurrentConflict() {
	userID := uuid.NewString()
	suite.mockPeriodService.On("Rollover", mock.Anything, userID, (*string)(nil), (*decimal.Decimal)(nil)).
		Return(nil, apperrors.NewConflictError("another rollover already opened a new month")).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/months/rollover", userID, nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *MonthHandlerTestSuite) TestUpdateActiveLimit_NoActiveMonth() {
	userID := uuid.NewString()
	limit := decimal.NewFromInt(750)
	suite.mockPeriodService.On("SetActiveMonthLimit", mock.Anything, userID, limit).
		Return(nil, apperrors.NewNotFoundError("no active month")).Once()

	body, _ := json.Marshal(dto.UpdateLimitRequest{SpendingLimit: limit})
	w := suite.doRequest(http.MethodPut, "/api/v1/months/active/limit", userID, body)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *MonthHandlerTestSuite) TestEnsureRecurringApplied_Success() {
	userID := uuid.NewString()
	month := &domain.Month{
		MonthID:  uuid.NewString(),
		UserID:   userID,
		Label:    "Feb 2026",
		IsActive: true,
	}
	result := &portssvc.EnsureAppliedResult{
		CreatedCount:          2,
		CreatedTransactionIDs: []string{uuid.NewString(), uuid.NewString()},
	}
	suite.mockPeriodService.On("GetActiveMonth", mock.Anything, userID).Return(month, nil).Once()
	suite.mockRecurringService.On("EnsureApplied", mock.Anything, userID, month.MonthID).Return(result, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/months/active/recurring/ensure", userID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.EnsureAppliedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal(2, res.CreatedCount)
	suite.Len(res.CreatedTransactionIDs, 2)
	suite.mockRecurringService.AssertExpectations(suite.T())
}

func TestMonthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MonthHandlerTestSuite))
}
