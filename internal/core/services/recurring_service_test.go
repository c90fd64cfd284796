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
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RecurringTemplateRepository ---
type MockRecurringTemplateRepository struct {
	mock.Mock
}

func (m *MockRecurringTemplateRepository) ListTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringTemplateRepository) ListActiveTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringTemplateRepository) FindTemplateByID(ctx context.Context, userID, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, userID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}

func (m *MockRecurringTemplateRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockRecurringTemplateRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockRecurringTemplateRepository) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	args := m.Called(ctx, userID, templateID)
	return args.Error(0)
}

func (m *MockRecurringTemplateRepository) SetLastGeneratedMonth(ctx context.Context, templateID, monthID string) error {
	args := m.Called(ctx, templateID, monthID)
	return args.Error(0)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, userID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoriesByIDs(ctx context.Context, userID string, categoryIDs []string) (map[string]domain.Category, error) {
	args := m.Called(ctx, userID, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	args := m.Called(ctx, userID, categoryID)
	return args.Error(0)
}

// --- Mock PaymentMethodRepository ---
type MockPaymentMethodRepository struct {
	mock.Mock
}

func (m *MockPaymentMethodRepository) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, userID, paymentMethodID string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, userID, paymentMethodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) FindPaymentMethodsByIDs(ctx context.Context, userID string, paymentMethodIDs []string) (map[string]domain.PaymentMethod, error) {
	args := m.Called(ctx, userID, paymentMethodIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.PaymentMethod), args.Error(1)
}

func (m *MockPaymentMethodRepository) SavePaymentMethod(ctx context.Context, paymentMethod domain.PaymentMethod) error {
	args := m.Called(ctx, paymentMethod)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) UpdatePaymentMethod(ctx context.Context, paymentMethod domain.PaymentMethod) error {
	args := m.Called(ctx, paymentMethod)
	return args.Error(0)
}

func (m *MockPaymentMethodRepository) DeletePaymentMethod(ctx context.Context, userID, paymentMethodID string) error {
	args := m.Called(ctx, userID, paymentMethodID)
	return args.Error(0)
}

// --- Test Suite ---
type RecurringServiceTestSuite struct {
	suite.Suite
	mockRecurringRepo   *MockRecurringTemplateRepository
	mockTransactionRepo *MockTransactionRepository
	mockMonthRepo       *MockMonthRepository
	mockCategoryRepo    *MockCategoryRepository
	mockPMRepo          *MockPaymentMethodRepository
	calendar            *civiltime.Calendar
	service             portssvc.RecurringSvcFacade
	userID              string
	month               *domain.Month
}

// newSuiteService rebuilds the service with the given "now".
func (suite *RecurringServiceTestSuite) newSuiteService(now time.Time) {
	suite.service = services.NewRecurringService(
		suite.mockRecurringRepo,
		suite.mockTransactionRepo,
		suite.mockMonthRepo,
		suite.mockCategoryRepo,
		suite.mockPMRepo,
		suite.calendar,
		fixedClock{t: now},
	)
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockRecurringRepo = new(MockRecurringTemplateRepository)
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockMonthRepo = new(MockMonthRepository)
	suite.mockCategoryRepo = new(MockCategoryRepository)
	suite.mockPMRepo = new(MockPaymentMethodRepository)

	calendar, err := civiltime.NewCalendar("Asia/Dubai")
	suite.Require().NoError(err)
	suite.calendar = calendar

	suite.userID = uuid.NewString()
	// An active February 2026 month, started on the 1st Dubai time.
	suite.month = &domain.Month{
		MonthID:   uuid.NewString(),
		UserID:    suite.userID,
		Label:     "Feb 2026",
		IsActive:  true,
		StartedAt: time.Date(2026, time.February, 1, 6, 0, 0, 0, time.UTC),
	}

	// Default clock: 2026-02-15 Dubai time.
	suite.newSuiteService(time.Date(2026, time.February, 15, 8, 0, 0, 0, time.UTC))
}

func (suite *RecurringServiceTestSuite) template(dueDay int, active bool) domain.RecurringTemplate {
	return domain.RecurringTemplate{
		TemplateID:      uuid.NewString(),
		UserID:          suite.userID,
		Name:            "Rent",
		Amount:          decimal.NewFromInt(1200),
		DueDay:          dueDay,
		CategoryID:      uuid.NewString(),
		Merchant:        "Landlord",
		PaymentMethodID: uuid.NewString(),
		IsActive:        active,
	}
}

// --- EnsureApplied ---

func (suite *RecurringServiceTestSuite) TestEnsureApplied_CreatesDueInstance() {
	ctx := context.Background()
	tmpl := suite.template(10, true)

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, suite.month.MonthID, tmpl.TemplateID).Return(false, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.MonthID == suite.month.MonthID &&
			t.IsRecurringInstance &&
			t.RecurringTemplateID != nil && *t.RecurringTemplateID == tmpl.TemplateID &&
			t.Amount.Equal(tmpl.Amount) &&
			t.Merchant == tmpl.Merchant
	})).Return(nil).Once()
	suite.mockRecurringRepo.On("SetLastGeneratedMonth", ctx, tmpl.TemplateID, suite.month.MonthID).Return(nil).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().NoError(err)
	suite.Equal(1, result.CreatedCount)
	suite.Len(result.CreatedTransactionIDs, 1)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_SkipsNotYetDue() {
	ctx := context.Background()
	tmpl := suite.template(20, true) // due on the 20th, today is the 15th

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.NotNil(result.CreatedTransactionIDs)
	suite.Empty(result.CreatedTransactionIDs)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_ClampsDueDayToMonthLength() {
	// February 2026 has 28 days; due day 31 clamps to 28. Today is Feb 28.
	suite.newSuiteService(time.Date(2026, time.February, 28, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()
	tmpl := suite.template(31, true)

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, suite.month.MonthID, tmpl.TemplateID).Return(false, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockRecurringRepo.On("SetLastGeneratedMonth", ctx, tmpl.TemplateID, suite.month.MonthID).Return(nil).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().NoError(err)
	suite.Equal(1, result.CreatedCount)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_LaterMonthAlwaysDue() {
	// Viewing a stale January month in mid February: everything is due.
	januaryMonth := &domain.Month{
		MonthID:   uuid.NewString(),
		UserID:    suite.userID,
		Label:     "Jan 2026",
		IsActive:  true,
		StartedAt: time.Date(2026, time.January, 1, 6, 0, 0, 0, time.UTC),
	}
	ctx := context.Background()
	tmpl := suite.template(28, true)

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, januaryMonth.MonthID).Return(januaryMonth, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, januaryMonth.MonthID, tmpl.TemplateID).Return(false, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockRecurringRepo.On("SetLastGeneratedMonth", ctx, tmpl.TemplateID, januaryMonth.MonthID).Return(nil).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, januaryMonth.MonthID)

	suite.Require().NoError(err)
	suite.Equal(1, result.CreatedCount)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_IdempotentWhenInstanceExists() {
	ctx := context.Background()
	tmpl := suite.template(10, true)

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, suite.month.MonthID, tmpl.TemplateID).Return(true, nil).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SetLastGeneratedMonth")
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_AbsorbsDuplicateInsertRace() {
	ctx := context.Background()
	tmpl := suite.template(10, true)

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, suite.month.MonthID, tmpl.TemplateID).Return(false, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(apperrors.ErrDuplicate).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().NoError(err)
	suite.Equal(0, result.CreatedCount)
	suite.Empty(result.CreatedTransactionIDs)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SetLastGeneratedMonth")
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_CacheFailureIsNotFatal() {
	ctx := context.Background()
	tmpl := suite.template(10, true)

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, suite.month.MonthID, tmpl.TemplateID).Return(false, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockRecurringRepo.On("SetLastGeneratedMonth", ctx, tmpl.TemplateID, suite.month.MonthID).Return(assert.AnError).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().NoError(err)
	suite.Equal(1, result.CreatedCount)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_MonthNotFound() {
	ctx := context.Background()
	monthID := uuid.NewString()

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, monthID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, monthID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "ListActiveTemplates")
}

func (suite *RecurringServiceTestSuite) TestEnsureApplied_InsertErrorPropagates() {
	ctx := context.Background()
	tmpl := suite.template(10, true)
	expectedErr := assert.AnError

	suite.mockMonthRepo.On("FindMonthByID", ctx, suite.userID, suite.month.MonthID).Return(suite.month, nil).Once()
	suite.mockRecurringRepo.On("ListActiveTemplates", ctx, suite.userID).Return([]domain.RecurringTemplate{tmpl}, nil).Once()
	suite.mockTransactionRepo.On("RecurringInstanceExists", ctx, suite.month.MonthID, tmpl.TemplateID).Return(false, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(expectedErr).Once()

	result, err := suite.service.EnsureApplied(ctx, suite.userID, suite.month.MonthID)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, expectedErr)
}

// --- Template CRUD ---

func (suite *RecurringServiceTestSuite) TestCreateTemplate_Success() {
	ctx := context.Background()
	req := dto.CreateRecurringTemplateRequest{
		Name:            "Gym",
		Amount:          decimal.NewFromInt(250),
		DueDay:          5,
		CategoryID:      uuid.NewString(),
		Merchant:        "FitClub",
		PaymentMethodID: uuid.NewString(),
	}

	suite.mockRecurringRepo.On("SaveTemplate", ctx, mock.MatchedBy(func(t domain.RecurringTemplate) bool {
		return t.Name == req.Name && t.DueDay == req.DueDay && t.IsActive && t.UserID == suite.userID
	})).Return(nil).Once()

	template, err := suite.service.CreateTemplate(ctx, suite.userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(template)
	suite.True(template.IsActive)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestCreateTemplate_InvalidDueDay() {
	ctx := context.Background()
	req := dto.CreateRecurringTemplateRequest{
		Name:            "Gym",
		Amount:          decimal.NewFromInt(250),
		DueDay:          32,
		CategoryID:      uuid.NewString(),
		Merchant:        "FitClub",
		PaymentMethodID: uuid.NewString(),
	}

	template, err := suite.service.CreateTemplate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(template)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecurringRepo.AssertNotCalled(suite.T(), "SaveTemplate")
}

func (suite *RecurringServiceTestSuite) TestCreateTemplate_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateRecurringTemplateRequest{
		Name:            "Gym",
		Amount:          decimal.Zero,
		DueDay:          5,
		CategoryID:      uuid.NewString(),
		Merchant:        "FitClub",
		PaymentMethodID: uuid.NewString(),
	}

	template, err := suite.service.CreateTemplate(ctx, suite.userID, req)

	suite.Require().Error(err)
	suite.Nil(template)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecurringServiceTestSuite) TestUpdateTemplate_DeactivateOnly() {
	ctx := context.Background()
	tmpl := suite.template(10, true)
	inactive := false

	suite.mockRecurringRepo.On("FindTemplateByID", ctx, suite.userID, tmpl.TemplateID).Return(&tmpl, nil).Once()
	suite.mockRecurringRepo.On("UpdateTemplate", ctx, mock.MatchedBy(func(t domain.RecurringTemplate) bool {
		return t.TemplateID == tmpl.TemplateID && !t.IsActive && t.Name == tmpl.Name
	})).Return(nil).Once()

	updated, err := suite.service.UpdateTemplate(ctx, suite.userID, tmpl.TemplateID, dto.UpdateRecurringTemplateRequest{IsActive: &inactive})

	suite.Require().NoError(err)
	suite.False(updated.IsActive)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestDeleteTemplate_NotFound() {
	ctx := context.Background()
	templateID := uuid.NewString()

	suite.mockRecurringRepo.On("DeleteTemplate", ctx, suite.userID, templateID).Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteTemplate(ctx, suite.userID, templateID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRecurringRepo.AssertExpectations(suite.T())
}

// --- Run Suite ---
func TestRecurringService(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
