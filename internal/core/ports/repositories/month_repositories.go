package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// MonthRepository persists budgeting months. The storage layer owns the
// "at most one active month per user" invariant through a partial unique
// index; SaveMonth and Rollover surface a violation as apperrors.ErrDuplicate
// wrapped in a conflict error.
type MonthRepository interface {
	// FindActiveMonth returns the user's single active month, or
	// apperrors.ErrNotFound when none exists.
	FindActiveMonth(ctx context.Context, userID string) (*domain.Month, error)

	// FindMonthByID returns the month only if it belongs to the user.
	FindMonthByID(ctx context.Context, userID, monthID string) (*domain.Month, error)

	// SaveMonth inserts a new month row.
	SaveMonth(ctx context.Context, month domain.Month) error

	// Rollover atomically deactivates the user's current active month (if any,
	// stamping closedAt) and inserts newMonth as the active one. It returns the
	// closed month's id, empty when no month was active.
	Rollover(ctx context.Context, userID string, closedAt time.Time, newMonth domain.Month) (string, error)

	// UpdateSpendingLimit updates the limit of one month in place.
	UpdateSpendingLimit(ctx context.Context, monthID string, limit decimal.Decimal) error

	// ListMonths returns up to limit months, newest first.
	ListMonths(ctx context.Context, userID string, limit int) ([]domain.Month, error)
}
