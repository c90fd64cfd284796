package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
)

// recurringService implements the RecurringSvcFacade: template CRUD plus the
// materializer that posts each active template's instance into a month
// exactly once.
type recurringService struct {
	BaseService
	recurringRepo     portsrepo.RecurringTemplateRepository
	transactionRepo   portsrepo.TransactionRepository
	monthRepo         portsrepo.MonthRepository
	categoryRepo      portsrepo.CategoryRepository
	paymentMethodRepo portsrepo.PaymentMethodRepository
	calendar          *civiltime.Calendar
	clock             civiltime.Clock
}

// NewRecurringService creates the recurring-expense service.
func NewRecurringService(
	recurringRepo portsrepo.RecurringTemplateRepository,
	transactionRepo portsrepo.TransactionRepository,
	monthRepo portsrepo.MonthRepository,
	categoryRepo portsrepo.CategoryRepository,
	paymentMethodRepo portsrepo.PaymentMethodRepository,
	calendar *civiltime.Calendar,
	clock civiltime.Clock,
) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo:     recurringRepo,
		transactionRepo:   transactionRepo,
		monthRepo:         monthRepo,
		categoryRepo:      categoryRepo,
		paymentMethodRepo: paymentMethodRepo,
		calendar:          calendar,
		clock:             clock,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

func (s *recurringService) ListTemplates(ctx context.Context, userID string) (*dto.ListRecurringTemplatesResponse, error) {
	templates, err := s.recurringRepo.ListTemplates(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring templates")
		return nil, err
	}

	categoryIDs := make([]string, 0, len(templates))
	paymentMethodIDs := make([]string, 0, len(templates))
	seenCat := make(map[string]bool)
	seenPM := make(map[string]bool)
	for _, t := range templates {
		if !seenCat[t.CategoryID] {
			seenCat[t.CategoryID] = true
			categoryIDs = append(categoryIDs, t.CategoryID)
		}
		if !seenPM[t.PaymentMethodID] {
			seenPM[t.PaymentMethodID] = true
			paymentMethodIDs = append(paymentMethodIDs, t.PaymentMethodID)
		}
	}

	categories, err := s.categoryRepo.FindCategoriesByIDs(ctx, userID, categoryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve template categories")
		return nil, err
	}
	paymentMethods, err := s.paymentMethodRepo.FindPaymentMethodsByIDs(ctx, userID, paymentMethodIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve template payment methods")
		return nil, err
	}

	res := &dto.ListRecurringTemplatesResponse{
		Templates: make([]dto.RecurringTemplateResponse, len(templates)),
	}
	for i := range templates {
		t := &templates[i]
		catRef := dto.NamedRef{ID: t.CategoryID}
		if c, ok := categories[t.CategoryID]; ok {
			catRef.Name = c.Name
		}
		pmRef := dto.NamedRef{ID: t.PaymentMethodID}
		if pm, ok := paymentMethods[t.PaymentMethodID]; ok {
			pmRef.Name = pm.Name
		}
		res.Templates[i] = dto.ToRecurringTemplateResponse(t, catRef, pmRef)
	}
	return res, nil
}

func (s *recurringService) CreateTemplate(ctx context.Context, userID string, req dto.CreateRecurringTemplateRequest) (*domain.RecurringTemplate, error) {
	name := strings.TrimSpace(req.Name)
	merchant := strings.TrimSpace(req.Merchant)
	if name == "" || !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationFailedError("invalid name or amount")
	}
	if req.DueDay < 1 || req.DueDay > 31 {
		return nil, apperrors.NewValidationFailedError("due day must be between 1 and 31")
	}
	if req.CategoryID == "" || merchant == "" || req.PaymentMethodID == "" {
		return nil, apperrors.NewValidationFailedError("category, merchant, and payment method required")
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.Now()
	template := domain.RecurringTemplate{
		TemplateID:      uuid.NewString(),
		UserID:          userID,
		Name:            name,
		Amount:          req.Amount,
		DueDay:          req.DueDay,
		CategoryID:      req.CategoryID,
		Merchant:        merchant,
		PaymentMethodID: req.PaymentMethodID,
		IsActive:        isActive,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.recurringRepo.SaveTemplate(ctx, template); err != nil {
		s.LogError(ctx, err, "Failed to save recurring template", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring template created", slog.String("template_id", template.TemplateID), slog.String("name", name))
	return &template, nil
}

func (s *recurringService) UpdateTemplate(ctx context.Context, userID, templateID string, req dto.UpdateRecurringTemplateRequest) (*domain.RecurringTemplate, error) {
	template, err := s.recurringRepo.FindTemplateByID(ctx, userID, templateID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find recurring template", slog.String("template_id", templateID))
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("name must not be empty")
		}
		template.Name = name
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, apperrors.NewValidationFailedError("amount must be positive")
		}
		template.Amount = *req.Amount
	}
	if req.DueDay != nil {
		if *req.DueDay < 1 || *req.DueDay > 31 {
			return nil, apperrors.NewValidationFailedError("due day must be between 1 and 31")
		}
		template.DueDay = *req.DueDay
	}
	if req.CategoryID != nil {
		template.CategoryID = *req.CategoryID
	}
	if req.Merchant != nil {
		template.Merchant = strings.TrimSpace(*req.Merchant)
	}
	if req.PaymentMethodID != nil {
		template.PaymentMethodID = *req.PaymentMethodID
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	template.UpdatedAt = s.clock.Now()

	if err := s.recurringRepo.UpdateTemplate(ctx, *template); err != nil {
		s.LogError(ctx, err, "Failed to update recurring template", slog.String("template_id", templateID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring template updated", slog.String("template_id", templateID))
	return template, nil
}

func (s *recurringService) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	if err := s.recurringRepo.DeleteTemplate(ctx, userID, templateID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete recurring template", slog.String("template_id", templateID))
		}
		return err
	}
	s.LogInfo(ctx, "Recurring template deleted", slog.String("template_id", templateID))
	return nil
}

// EnsureApplied materializes due templates into the given month. It must only
// be called with the user's active month; it is idempotent and safe under
// concurrent invocation because the transactions table carries a unique index
// over (month_id, recurring_template_id) for recurring instances.
func (s *recurringService) EnsureApplied(ctx context.Context, userID, monthID string) (*portssvc.EnsureAppliedResult, error) {
	month, err := s.monthRepo.FindMonthByID(ctx, userID, monthID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("month not found")
		}
		s.LogError(ctx, err, "Failed to load month for materialization", slog.String("month_id", monthID))
		return nil, err
	}

	monthYear, monthMonth, _ := s.calendar.CivilDate(month.StartedAt)
	lastDay := civiltime.LastDayOfMonth(monthYear, monthMonth)

	todayYear, todayMonth, todayDay := s.calendar.CivilDate(s.clock.Now())

	templates, err := s.recurringRepo.ListActiveTemplates(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active templates for materialization")
		return nil, err
	}

	result := &portssvc.EnsureAppliedResult{CreatedTransactionIDs: []string{}}

	for i := range templates {
		t := &templates[i]
		effectiveDueDay := civiltime.ClampDueDay(t.DueDay, lastDay)

		if !civiltime.DueDayPassed(todayYear, todayMonth, todayDay, monthYear, monthMonth, effectiveDueDay) {
			continue
		}

		exists, err := s.transactionRepo.RecurringInstanceExists(ctx, month.MonthID, t.TemplateID)
		if err != nil {
			s.LogError(ctx, err, "Failed to check existing recurring instance", slog.String("template_id", t.TemplateID))
			return nil, err
		}
		if exists {
			continue
		}

		now := s.clock.Now()
		templateID := t.TemplateID
		txn := domain.Transaction{
			TransactionID:       uuid.NewString(),
			UserID:              userID,
			MonthID:             month.MonthID,
			Amount:              t.Amount,
			CategoryID:          t.CategoryID,
			Merchant:            t.Merchant,
			PaymentMethodID:     t.PaymentMethodID,
			IsRecurringInstance: true,
			RecurringTemplateID: &templateID,
			AuditFields: domain.AuditFields{
				CreatedAt: now,
				UpdatedAt: now,
			},
		}

		if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
			if errors.Is(err, apperrors.ErrDuplicate) {
				// A concurrent call materialized this template first; the
				// outcome we wanted already exists.
				s.LogDebug(ctx, "Recurring instance already materialized concurrently",
					slog.String("template_id", t.TemplateID), slog.String("month_id", month.MonthID))
				continue
			}
			s.LogError(ctx, err, "Failed to insert recurring instance", slog.String("template_id", t.TemplateID))
			return nil, err
		}

		result.CreatedCount++
		result.CreatedTransactionIDs = append(result.CreatedTransactionIDs, txn.TransactionID)

		// Informational cache only; a failure here must not fail the run.
		if err := s.recurringRepo.SetLastGeneratedMonth(ctx, t.TemplateID, month.MonthID); err != nil {
			s.LogWarn(ctx, "Failed to update last generated month cache",
				slog.String("template_id", t.TemplateID), slog.String("error", err.Error()))
		}
	}

	if result.CreatedCount > 0 {
		s.LogInfo(ctx, "Materialized recurring instances",
			slog.String("month_id", month.MonthID), slog.Int("created", result.CreatedCount))
	}
	return result, nil
}
