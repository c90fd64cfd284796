package dto

import "github.com/shopspring/decimal"

// BreakdownEntry is one aggregation bucket (per category or per merchant).
type BreakdownEntry struct {
	Key   string          `json:"key"`  // category id or merchant label
	Name  string          `json:"name"` // display name (same as Key for merchants)
	Total decimal.Decimal `json:"total"`
}

// MonthInsightsResponse aggregates a month's non-deleted transactions.
type MonthInsightsResponse struct {
	MonthID       string           `json:"monthID"`
	SpendingLimit decimal.Decimal  `json:"spendingLimit"`
	Spent         decimal.Decimal  `json:"spent"`
	Remaining     decimal.Decimal  `json:"remaining"`
	ByCategory    []BreakdownEntry `json:"byCategory"`
	ByMerchant    []BreakdownEntry `json:"byMerchant"`
}
