package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// MonthResponse defines the data returned for a budgeting month.
type MonthResponse struct {
	MonthID       string          `json:"monthID"`
	Label         string          `json:"label"`
	SpendingLimit decimal.Decimal `json:"spendingLimit"`
	IsActive      bool            `json:"isActive"`
	StartedAt     time.Time       `json:"startedAt"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
}

// RolloverCheckResponse reports whether the active month lags the calendar.
type RolloverCheckResponse struct {
	Needed             bool   `json:"needed"`
	SuggestedLabel     string `json:"suggestedLabel"`
	CurrentActiveLabel string `json:"currentActiveLabel"`
}

// RolloverRequest starts a new month. Both fields are optional: the label
// defaults to the canonical label for "now" and the limit defaults to the
// closing month's limit.
type RolloverRequest struct {
	Label         *string          `json:"label"`
	SpendingLimit *decimal.Decimal `json:"spendingLimit"`
}

// RolloverResponse reports the closed month (empty ID if none existed) and
// the freshly opened one.
type RolloverResponse struct {
	ClosedMonthID string        `json:"closedMonthID"`
	NewMonth      MonthResponse `json:"newMonth"`
}

// UpdateLimitRequest sets the active month's spending limit.
type UpdateLimitRequest struct {
	SpendingLimit decimal.Decimal `json:"spendingLimit" binding:"required"`
}

// UpdateLimitResponse confirms the applied limit.
type UpdateLimitResponse struct {
	MonthID       string          `json:"monthID"`
	SpendingLimit decimal.Decimal `json:"spendingLimit"`
}

// ListMonthsParams defines query parameters for listing months.
type ListMonthsParams struct {
	Limit int `form:"limit,default=24"`
}

// ListMonthsResponse wraps the list of months.
type ListMonthsResponse struct {
	Months []MonthResponse `json:"months"`
}

// ToMonthResponse converts a domain.Month to a MonthResponse DTO.
func ToMonthResponse(m *domain.Month) MonthResponse {
	return MonthResponse{
		MonthID:       m.MonthID,
		Label:         m.Label,
		SpendingLimit: m.SpendingLimit,
		IsActive:      m.IsActive,
		StartedAt:     m.StartedAt,
		ClosedAt:      m.ClosedAt,
	}
}

// ToListMonthsResponse converts a slice of domain.Month to the list DTO.
func ToListMonthsResponse(months []domain.Month) ListMonthsResponse {
	res := ListMonthsResponse{Months: make([]MonthResponse, len(months))}
	for i := range months {
		res.Months[i] = ToMonthResponse(&months[i])
	}
	return res
}
