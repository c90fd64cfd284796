package services

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// InsightSvcFacade computes simple aggregates over a month's non-deleted
// transactions.
type InsightSvcFacade interface {
	GetMonthInsights(ctx context.Context, userID, monthID string) (*dto.MonthInsightsResponse, error)
}
