package dto

import (
	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// NamedRef is a small id+name pair used for category and payment method
// references on listing responses.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateRecurringTemplateRequest defines the data needed to create a template.
type CreateRecurringTemplateRequest struct {
	Name            string          `json:"name" binding:"required"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	DueDay          int             `json:"dueDay" binding:"required,min=1,max=31"`
	CategoryID      string          `json:"categoryID" binding:"required"`
	Merchant        string          `json:"merchant" binding:"required"`
	PaymentMethodID string          `json:"paymentMethodID" binding:"required"`
	IsActive        *bool           `json:"isActive"` // defaults to true
}

// UpdateRecurringTemplateRequest defines a partial template update.
// Pointers distinguish zero-value updates from fields not provided.
type UpdateRecurringTemplateRequest struct {
	Name            *string          `json:"name"`
	Amount          *decimal.Decimal `json:"amount"`
	DueDay          *int             `json:"dueDay"`
	CategoryID      *string          `json:"categoryID"`
	Merchant        *string          `json:"merchant"`
	PaymentMethodID *string          `json:"paymentMethodID"`
	IsActive        *bool            `json:"isActive"`
}

// RecurringTemplateResponse defines the data returned for a template.
type RecurringTemplateResponse struct {
	TemplateID           string          `json:"templateID"`
	Name                 string          `json:"name"`
	Amount               decimal.Decimal `json:"amount"`
	DueDay               int             `json:"dueDay"`
	Merchant             string          `json:"merchant"`
	IsActive             bool            `json:"isActive"`
	LastGeneratedMonthID *string         `json:"lastGeneratedMonthID,omitempty"`
	Category             NamedRef        `json:"category"`
	PaymentMethod        NamedRef        `json:"paymentMethod"`
}

// ListRecurringTemplatesResponse wraps the list of templates.
type ListRecurringTemplatesResponse struct {
	Templates []RecurringTemplateResponse `json:"templates"`
}

// EnsureAppliedResponse reports what one materializer invocation created.
// Both fields are zero on an idempotent no-op call.
type EnsureAppliedResponse struct {
	CreatedCount          int      `json:"createdCount"`
	CreatedTransactionIDs []string `json:"createdTransactionIDs"`
}

// ToRecurringTemplateResponse converts a template plus resolved reference
// names into the response DTO.
func ToRecurringTemplateResponse(t *domain.RecurringTemplate, category, paymentMethod NamedRef) RecurringTemplateResponse {
	return RecurringTemplateResponse{
		TemplateID:           t.TemplateID,
		Name:                 t.Name,
		Amount:               t.Amount,
		DueDay:               t.DueDay,
		Merchant:             t.Merchant,
		IsActive:             t.IsActive,
		LastGeneratedMonthID: t.LastGeneratedMonthID,
		Category:             category,
		PaymentMethod:        paymentMethod,
	}
}
