package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// insightService computes a month's aggregates in memory. Soft-deleted
// transactions never reach this code: the repository list excludes them.
type insightService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepository
	monthRepo       portsrepo.MonthRepository
	categoryRepo    portsrepo.CategoryRepository
}

// NewInsightService creates the insights service.
func NewInsightService(transactionRepo portsrepo.TransactionRepository, monthRepo portsrepo.MonthRepository, categoryRepo portsrepo.CategoryRepository) portssvc.InsightSvcFacade {
	return &insightService{
		transactionRepo: transactionRepo,
		monthRepo:       monthRepo,
		categoryRepo:    categoryRepo,
	}
}

var _ portssvc.InsightSvcFacade = (*insightService)(nil)

func (s *insightService) GetMonthInsights(ctx context.Context, userID, monthID string) (*dto.MonthInsightsResponse, error) {
	month, err := s.monthRepo.FindMonthByID(ctx, userID, monthID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("month not found")
		}
		s.LogError(ctx, err, "Failed to load month for insights", slog.String("month_id", monthID))
		return nil, err
	}

	txns, err := s.transactionRepo.ListAllMonthTransactions(ctx, userID, monthID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load transactions for insights", slog.String("month_id", monthID))
		return nil, err
	}

	spent := decimal.Zero
	byCategory := make(map[string]decimal.Decimal)
	byMerchant := make(map[string]decimal.Decimal)
	categoryIDs := make([]string, 0)
	for i := range txns {
		t := &txns[i]
		spent = spent.Add(t.Amount)
		if _, seen := byCategory[t.CategoryID]; !seen {
			categoryIDs = append(categoryIDs, t.CategoryID)
		}
		byCategory[t.CategoryID] = byCategory[t.CategoryID].Add(t.Amount)
		byMerchant[t.Merchant] = byMerchant[t.Merchant].Add(t.Amount)
	}

	categories, err := s.categoryRepo.FindCategoriesByIDs(ctx, userID, categoryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve category names for insights", slog.String("month_id", monthID))
		return nil, err
	}

	res := &dto.MonthInsightsResponse{
		MonthID:       month.MonthID,
		SpendingLimit: month.SpendingLimit,
		Spent:         spent,
		Remaining:     month.SpendingLimit.Sub(spent),
		ByCategory:    make([]dto.BreakdownEntry, 0, len(byCategory)),
		ByMerchant:    make([]dto.BreakdownEntry, 0, len(byMerchant)),
	}
	for id, total := range byCategory {
		entry := dto.BreakdownEntry{Key: id, Name: id, Total: total}
		if c, ok := categories[id]; ok {
			entry.Name = c.Name
		}
		res.ByCategory = append(res.ByCategory, entry)
	}
	for merchant, total := range byMerchant {
		res.ByMerchant = append(res.ByMerchant, dto.BreakdownEntry{Key: merchant, Name: merchant, Total: total})
	}

	// Largest bucket first, key as the tiebreaker for a stable order.
	sortBreakdown(res.ByCategory)
	sortBreakdown(res.ByMerchant)

	return res, nil
}

func sortBreakdown(entries []dto.BreakdownEntry) {
	sort.Slice(entries, func(i, j int) bool {
		cmp := entries[i].Total.Cmp(entries[j].Total)
		if cmp != 0 {
			return cmp > 0
		}
		return entries[i].Key < entries[j].Key
	})
}
