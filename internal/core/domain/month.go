package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Month is one budgeting period for one user. At most one Month per user is
// active at any time; the storage layer enforces this with a partial unique
// index, so a racing rollover fails with a conflict instead of leaving two
// active rows.
type Month struct {
	MonthID       string          `json:"monthID"` // Primary Key (UUID)
	UserID        string          `json:"userID"`
	Label         string          `json:"label"` // canonical "Feb 2026" form
	SpendingLimit decimal.Decimal `json:"spendingLimit"`
	IsActive      bool            `json:"isActive"`
	StartedAt     time.Time       `json:"startedAt"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"` // set when rolled over
}
