package domain

import "github.com/shopspring/decimal"

// RecurringTemplate is a user rule describing a repeating expense. Each
// applicable month it materializes at most one Transaction; deactivating a
// template stops future generation but never touches historical instances.
type RecurringTemplate struct {
	TemplateID      string          `json:"templateID"` // Primary Key (UUID)
	UserID          string          `json:"userID"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"` // positive
	DueDay          int             `json:"dueDay"` // 1-31, clamped to the target month's length
	CategoryID      string          `json:"categoryID"`
	Merchant        string          `json:"merchant"`
	PaymentMethodID string          `json:"paymentMethodID"`
	IsActive        bool            `json:"isActive"`

	// LastGeneratedMonthID is an informational cache of the most recent month
	// this template posted into. Idempotency never consults it; the unique
	// index on transactions owns that invariant.
	LastGeneratedMonthID *string `json:"lastGeneratedMonthID,omitempty"`
	AuditFields
}
