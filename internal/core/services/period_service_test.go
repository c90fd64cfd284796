package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/core/services"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fixedClock pins time for deterministic calendar decisions.
type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

// --- Mock MonthRepository ---
type MockMonthRepository struct {
	mock.Mock
}

func (m *MockMonthRepository) FindActiveMonth(ctx context.Context, userID string) (*domain.Month, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Month), args.Error(1)
}

func (m *MockMonthRepository) FindMonthByID(ctx context.Context, userID, monthID string) (*domain.Month, error) {
	args := m.Called(ctx, userID, monthID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Month), args.Error(1)
}

func (m *MockMonthRepository) SaveMonth(ctx context.Context, month domain.Month) error {
	args := m.Called(ctx, month)
	return args.Error(0)
}

func (m *MockMonthRepository) Rollover(ctx context.Context, userID string, closedAt time.Time, newMonth domain.Month) (string, error) {
	args := m.Called(ctx, userID, closedAt, newMonth)
	return args.String(0), args.Error(1)
}

func (m *MockMonthRepository) UpdateSpendingLimit(ctx context.Context, monthID string, limit decimal.Decimal) error {
	args := m.Called(ctx, monthID, limit)
	return args.Error(0)
}

func (m *MockMonthRepository) ListMonths(ctx context.Context, userID string, limit int) ([]domain.Month, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Month), args.Error(1)
}

// --- Test Suite ---
type PeriodServiceTestSuite struct {
	suite.Suite
	mockRepo *MockMonthRepository
	calendar *civiltime.Calendar
	now      time.Time
	service  portssvc.PeriodSvcFacade
	userID   string
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockMonthRepository)

	calendar, err := civiltime.NewCalendar("Asia/Dubai")
	suite.Require().NoError(err)
	suite.calendar = calendar

	// 2026-02-10 12:00 in Dubai.
	suite.now = time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC)
	suite.service = services.NewPeriodService(suite.mockRepo, suite.calendar, fixedClock{t: suite.now})
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *PeriodServiceTestSuite) TestGetActiveMonth_Existing() {
	ctx := context.Background()
	existing := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Feb 2026", IsActive: true}

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(existing, nil).Once()

	month, err := suite.service.GetActiveMonth(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(existing, month)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestGetActiveMonth_LazyCreate() {
	ctx := context.Background()

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveMonth", ctx, mock.MatchedBy(func(m domain.Month) bool {
		return m.UserID == suite.userID && m.Label == "Feb 2026" && m.IsActive && m.SpendingLimit.IsZero()
	})).Return(nil).Once()

	month, err := suite.service.GetActiveMonth(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(month)
	suite.Equal("Feb 2026", month.Label)
	suite.True(month.SpendingLimit.IsZero())
	suite.True(month.IsActive)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestGetActiveMonth_LazyCreateRace() {
	ctx := context.Background()
	winner := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Feb 2026", IsActive: true}

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveMonth", ctx, mock.AnythingOfType("domain.Month")).Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(winner, nil).Once()

	month, err := suite.service.GetActiveMonth(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(winner, month)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestIsRolloverNeeded_LabelMatches() {
	ctx := context.Background()
	active := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Feb 2026", IsActive: true}

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(active, nil).Once()

	check, err := suite.service.IsRolloverNeeded(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.False(check.Needed)
	suite.Equal("Feb 2026", check.SuggestedLabel)
	suite.Equal("Feb 2026", check.CurrentActiveLabel)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestIsRolloverNeeded_StaleLabel() {
	ctx := context.Background()
	active := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Jan 2026", IsActive: true}

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(active, nil).Once()

	check, err := suite.service.IsRolloverNeeded(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.True(check.Needed)
	suite.Equal("Feb 2026", check.SuggestedLabel)
	suite.Equal("Jan 2026", check.CurrentActiveLabel)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestRollover_CarriesForwardLimit() {
	ctx := context.Background()
	priorLimit := decimal.NewFromInt(3000)
	prior := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Jan 2026", SpendingLimit: priorLimit, IsActive: true}

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(prior, nil).Once()
	suite.mockRepo.On("Rollover", ctx, suite.userID, suite.now, mock.MatchedBy(func(m domain.Month) bool {
		return m.Label == "Feb 2026" && m.SpendingLimit.Equal(priorLimit) && m.IsActive
	})).Return(prior.MonthID, nil).Once()

	result, err := suite.service.Rollover(ctx, suite.userID, nil, nil)

	suite.Require().NoError(err)
	suite.Equal(prior.MonthID, result.ClosedMonthID)
	suite.Equal("Feb 2026", result.NewMonth.Label)
	suite.True(result.NewMonth.SpendingLimit.Equal(priorLimit))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestRollover_ExplicitLabelAndLimit() {
	ctx := context.Background()
	prior := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Jan 2026", SpendingLimit: decimal.NewFromInt(3000), IsActive: true}
	label := "Mar 2026"
	limit := decimal.NewFromInt(4500)

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(prior, nil).Once()
	suite.mockRepo.On("Rollover", ctx, suite.userID, suite.now, mock.MatchedBy(func(m domain.Month) bool {
		return m.Label == label && m.SpendingLimit.Equal(limit)
	})).Return(prior.MonthID, nil).Once()

	result, err := suite.service.Rollover(ctx, suite.userID, &label, &limit)

	suite.Require().NoError(err)
	suite.Equal(label, result.NewMonth.Label)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestRollover_NegativeLimit() {
	ctx := context.Background()
	prior := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Jan 2026", IsActive: true}
	limit := decimal.NewFromInt(-1)

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(prior, nil).Once()

	result, err := suite.service.Rollover(ctx, suite.userID, nil, &limit)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "Rollover")
}

func (suite *PeriodServiceTestSuite) TestRollover_NoPriorMonth() {
	ctx := context.Background()

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("Rollover", ctx, suite.userID, suite.now, mock.MatchedBy(func(m domain.Month) bool {
		return m.Label == "Feb 2026" && m.SpendingLimit.IsZero()
	})).Return("", nil).Once()

	result, err := suite.service.Rollover(ctx, suite.userID, nil, nil)

	suite.Require().NoError(err)
	suite.Empty(result.ClosedMonthID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestRollover_ConcurrentConflict() {
	ctx := context.Background()
	prior := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Jan 2026", IsActive: true}

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(prior, nil).Once()
	suite.mockRepo.On("Rollover", ctx, suite.userID, suite.now, mock.AnythingOfType("domain.Month")).Return("", apperrors.ErrDuplicate).Once()

	result, err := suite.service.Rollover(ctx, suite.userID, nil, nil)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestSetActiveMonthLimit_Success() {
	ctx := context.Background()
	active := &domain.Month{MonthID: uuid.NewString(), UserID: suite.userID, Label: "Feb 2026", IsActive: true}
	limit := decimal.NewFromInt(2500)

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(active, nil).Once()
	suite.mockRepo.On("UpdateSpendingLimit", ctx, active.MonthID, limit).Return(nil).Once()

	month, err := suite.service.SetActiveMonthLimit(ctx, suite.userID, limit)

	suite.Require().NoError(err)
	suite.True(month.SpendingLimit.Equal(limit))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestSetActiveMonthLimit_Negative() {
	ctx := context.Background()

	month, err := suite.service.SetActiveMonthLimit(ctx, suite.userID, decimal.NewFromInt(-5))

	suite.Require().Error(err)
	suite.Nil(month)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateSpendingLimit")
}

func (suite *PeriodServiceTestSuite) TestSetActiveMonthLimit_NoActiveMonth() {
	ctx := context.Background()

	suite.mockRepo.On("FindActiveMonth", ctx, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	month, err := suite.service.SetActiveMonthLimit(ctx, suite.userID, decimal.NewFromInt(100))

	suite.Require().Error(err)
	suite.Nil(month)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestListMonths_ClampsLimit() {
	ctx := context.Background()
	expected := []domain.Month{{MonthID: uuid.NewString()}}

	suite.mockRepo.On("ListMonths", ctx, suite.userID, 24).Return(expected, nil).Once()

	months, err := suite.service.ListMonths(ctx, suite.userID, 0)

	suite.Require().NoError(err)
	suite.Equal(expected, months)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestListMonths_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("ListMonths", ctx, suite.userID, 12).Return(nil, expectedErr).Once()

	months, err := suite.service.ListMonths(ctx, suite.userID, 12)

	suite.Require().Error(err)
	suite.Nil(months)
	suite.ErrorIs(err, expectedErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestPeriodService(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
