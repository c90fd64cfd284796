package repositories

import (
	"context"
	"time"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// TransactionRepository persists expense transactions. A partial unique index
// on (month_id, recurring_template_id) where is_recurring_instance guards
// recurring materialization: a duplicate insert fails with
// apperrors.ErrDuplicate, which the materializer absorbs as a no-op.
type TransactionRepository interface {
	// SaveTransaction inserts a new transaction row.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// RecurringInstanceExists reports whether the (month, template) pair has
	// already materialized.
	RecurringInstanceExists(ctx context.Context, monthID, templateID string) (bool, error)

	// FindTransactionByID returns the transaction (soft-deleted included) only
	// if it belongs to the user.
	FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)

	// ListMonthTransactions returns non-deleted transactions of a month,
	// newest first, at most limit rows, optionally only ones created strictly
	// before the cursor timestamp.
	ListMonthTransactions(ctx context.Context, userID, monthID string, limit int, createdBefore *time.Time) ([]domain.Transaction, error)

	// ListAllMonthTransactions returns every non-deleted transaction of a
	// month, for aggregate computations.
	ListAllMonthTransactions(ctx context.Context, userID, monthID string) ([]domain.Transaction, error)

	// MarkDeleted soft-deletes a transaction. Returns apperrors.ErrNotFound
	// when the row does not exist for this user or is already deleted.
	MarkDeleted(ctx context.Context, userID, transactionID string, deletedAt time.Time) error
}
