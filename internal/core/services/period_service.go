package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
)

// periodService implements the PeriodSvcFacade. It never caches the active
// month in memory; every operation re-reads from the store so that multiple
// service instances stay consistent.
type periodService struct {
	BaseService
	monthRepo portsrepo.MonthRepository
	calendar  *civiltime.Calendar
	clock     civiltime.Clock
}

// NewPeriodService creates the Period Manager.
func NewPeriodService(monthRepo portsrepo.MonthRepository, calendar *civiltime.Calendar, clock civiltime.Clock) portssvc.PeriodSvcFacade {
	return &periodService{
		monthRepo: monthRepo,
		calendar:  calendar,
		clock:     clock,
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

func (s *periodService) GetActiveMonth(ctx context.Context, userID string) (*domain.Month, error) {
	active, err := s.monthRepo.FindActiveMonth(ctx, userID)
	if err == nil {
		return active, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find active month")
		return nil, err
	}

	// First access for this user: open a month for the current civil month
	// with a zero limit.
	now := s.clock.Now()
	month := domain.Month{
		MonthID:       uuid.NewString(),
		UserID:        userID,
		Label:         s.calendar.MonthLabel(now),
		SpendingLimit: decimal.Zero,
		IsActive:      true,
		StartedAt:     now,
	}

	if err := s.monthRepo.SaveMonth(ctx, month); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent request created the month first; use theirs.
			s.LogDebug(ctx, "Lost lazy-create race for active month, re-reading")
			return s.monthRepo.FindActiveMonth(ctx, userID)
		}
		s.LogError(ctx, err, "Failed to create initial month", slog.String("label", month.Label))
		return nil, err
	}

	s.LogInfo(ctx, "Opened initial month", slog.String("month_id", month.MonthID), slog.String("label", month.Label))
	return &month, nil
}

func (s *periodService) IsRolloverNeeded(ctx context.Context, userID string) (*portssvc.RolloverCheck, error) {
	active, err := s.GetActiveMonth(ctx, userID)
	if err != nil {
		return nil, err
	}

	suggested := s.calendar.MonthLabel(s.clock.Now())

	// Label string equality is the sole rollover trigger.
	return &portssvc.RolloverCheck{
		Needed:             active.Label != suggested,
		SuggestedLabel:     suggested,
		CurrentActiveLabel: active.Label,
	}, nil
}

func (s *periodService) Rollover(ctx context.Context, userID string, label *string, limit *decimal.Decimal) (*portssvc.RolloverResult, error) {
	now := s.clock.Now()

	newLabel := s.calendar.MonthLabel(now)
	if label != nil {
		newLabel = strings.TrimSpace(*label)
	}
	if newLabel == "" {
		return nil, apperrors.NewValidationFailedError("label is required")
	}

	// Read the closing month first to default the carry-forward limit. The
	// subsequent swap is transactional; a race here only means the loser gets
	// a conflict from the unique active index.
	newLimit := decimal.Zero
	prior, err := s.monthRepo.FindActiveMonth(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to read active month before rollover")
		return nil, err
	}
	if prior != nil {
		newLimit = prior.SpendingLimit
	}
	if limit != nil {
		if limit.IsNegative() {
			return nil, apperrors.NewValidationFailedError("spending limit must not be negative")
		}
		newLimit = *limit
	}

	newMonth := domain.Month{
		MonthID:       uuid.NewString(),
		UserID:        userID,
		Label:         newLabel,
		SpendingLimit: newLimit,
		IsActive:      true,
		StartedAt:     now,
	}

	closedMonthID, err := s.monthRepo.Rollover(ctx, userID, now, newMonth)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) || errors.Is(err, apperrors.ErrConflict) {
			// Another rollover won the race; the caller should re-read the
			// active month rather than retry.
			s.LogWarn(ctx, "Rollover lost race to concurrent rollover")
			return nil, apperrors.NewConflictError("another rollover already opened a new month")
		}
		s.LogError(ctx, err, "Failed to roll over month", slog.String("label", newLabel))
		return nil, err
	}

	s.LogInfo(ctx, "Rolled over month",
		slog.String("closed_month_id", closedMonthID),
		slog.String("new_month_id", newMonth.MonthID),
		slog.String("label", newLabel))

	return &portssvc.RolloverResult{
		ClosedMonthID: closedMonthID,
		NewMonth:      newMonth,
	}, nil
}

func (s *periodService) SetActiveMonthLimit(ctx context.Context, userID string, limit decimal.Decimal) (*domain.Month, error) {
	if limit.IsNegative() {
		return nil, apperrors.NewValidationFailedError("spending limit must not be negative")
	}

	active, err := s.monthRepo.FindActiveMonth(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("no active month found")
		}
		s.LogError(ctx, err, "Failed to find active month for limit update")
		return nil, err
	}

	if err := s.monthRepo.UpdateSpendingLimit(ctx, active.MonthID, limit); err != nil {
		s.LogError(ctx, err, "Failed to update spending limit", slog.String("month_id", active.MonthID))
		return nil, err
	}

	active.SpendingLimit = limit
	s.LogInfo(ctx, "Updated spending limit", slog.String("month_id", active.MonthID), slog.String("limit", limit.String()))
	return active, nil
}

func (s *periodService) ListMonths(ctx context.Context, userID string, limit int) ([]domain.Month, error) {
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	months, err := s.monthRepo.ListMonths(ctx, userID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list months")
		return nil, err
	}
	return months, nil
}
