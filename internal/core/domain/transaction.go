package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single expense record, either entered manually or
// materialized from a RecurringTemplate. Transactions are soft-deleted only;
// deleted rows stay retrievable by id but are excluded from every aggregate.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	UserID          string          `json:"userID"`
	MonthID         string          `json:"monthID"`
	Amount          decimal.Decimal `json:"amount"`
	CategoryID      string          `json:"categoryID"`
	Merchant        string          `json:"merchant"`
	PaymentMethodID string          `json:"paymentMethodID"`
	Note            string          `json:"note,omitempty"`

	// IsRecurringInstance marks transactions created by the materializer.
	// RecurringTemplateID is set iff IsRecurringInstance; the pair
	// (MonthID, RecurringTemplateID) is unique among recurring instances.
	IsRecurringInstance bool    `json:"isRecurringInstance"`
	RecurringTemplateID *string `json:"recurringTemplateID,omitempty"`

	IsDeleted bool       `json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	AuditFields
}
