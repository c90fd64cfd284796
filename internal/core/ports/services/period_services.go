package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// RolloverCheck reports whether the active month lags the civil calendar.
type RolloverCheck struct {
	Needed             bool
	SuggestedLabel     string
	CurrentActiveLabel string
}

// RolloverResult describes a completed month transition.
type RolloverResult struct {
	ClosedMonthID string // empty when no month was active before
	NewMonth      domain.Month
}

// PeriodSvcFacade is the Period Manager: it maintains exactly one active
// month per user and transitions between months as civil time advances.
type PeriodSvcFacade interface {
	// GetActiveMonth returns the user's active month, lazily creating one
	// (canonical label for "now", zero limit) when none exists.
	GetActiveMonth(ctx context.Context, userID string) (*domain.Month, error)

	// IsRolloverNeeded compares the active month's label with the canonical
	// label for "now". Pure read.
	IsRolloverNeeded(ctx context.Context, userID string) (*RolloverCheck, error)

	// Rollover closes the current active month and opens a new one. label
	// defaults to the canonical label for "now"; limit defaults to the closing
	// month's limit (zero when none existed). A concurrent rollover surfaces
	// as apperrors.ErrConflict; callers should re-read the active month.
	Rollover(ctx context.Context, userID string, label *string, limit *decimal.Decimal) (*RolloverResult, error)

	// SetActiveMonthLimit validates limit >= 0 and updates the active month.
	SetActiveMonthLimit(ctx context.Context, userID string, limit decimal.Decimal) (*domain.Month, error)

	// ListMonths returns up to limit months, newest first.
	ListMonths(ctx context.Context, userID string, limit int) ([]domain.Month, error)
}
