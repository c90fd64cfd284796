package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, month_id, amount, category_id, merchant, payment_method_id, note, is_recurring_instance, recurring_template_id, is_deleted, deleted_at, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.UserID,
		&t.MonthID,
		&t.Amount,
		&t.CategoryID,
		&t.Merchant,
		&t.PaymentMethodID,
		&t.Note,
		&t.IsRecurringInstance,
		&t.RecurringTemplateID,
		&t.IsDeleted,
		&t.DeletedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_id, user_id, month_id, amount, category_id, merchant, payment_method_id, note, is_recurring_instance, recurring_template_id, is_deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionID,
		txn.UserID,
		txn.MonthID,
		txn.Amount,
		txn.CategoryID,
		txn.Merchant,
		txn.PaymentMethodID,
		txn.Note,
		txn.IsRecurringInstance,
		txn.RecurringTemplateID,
		txn.IsDeleted,
		txn.DeletedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// For recurring instances this is the (month_id, recurring_template_id)
			// partial index: the instance already exists and the caller treats
			// the insert as a no-op.
			return fmt.Errorf("%w: transaction already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

func (r *PgxTransactionRepository) RecurringInstanceExists(ctx context.Context, monthID, templateID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE month_id = $1 AND recurring_template_id = $2 AND is_recurring_instance
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, monthID, templateID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check recurring instance for template %s in month %s: %w", templateID, monthID, err)
	}
	return exists, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2;
	`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (r *PgxTransactionRepository) ListMonthTransactions(ctx context.Context, userID, monthID string, limit int, createdBefore *time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND month_id = $2 AND NOT is_deleted
	`
	args := []any{userID, monthID}
	if createdBefore != nil {
		query += ` AND created_at < $3 ORDER BY created_at DESC LIMIT $4;`
		args = append(args, *createdBefore, limit)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $3;`
		args = append(args, limit)
	}

	return r.queryTransactions(ctx, query, args...)
}

func (r *PgxTransactionRepository) ListAllMonthTransactions(ctx context.Context, userID, monthID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND month_id = $2 AND NOT is_deleted
		ORDER BY created_at DESC;
	`
	return r.queryTransactions(ctx, query, userID, monthID)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func (r *PgxTransactionRepository) MarkDeleted(ctx context.Context, userID, transactionID string, deletedAt time.Time) error {
	query := `
		UPDATE transactions
		SET is_deleted = TRUE, deleted_at = $1, updated_at = $1
		WHERE transaction_id = $2 AND user_id = $3 AND NOT is_deleted;
	`
	tag, err := r.Pool.Exec(ctx, query, deletedAt, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to soft-delete transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
