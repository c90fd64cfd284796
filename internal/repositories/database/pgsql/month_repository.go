package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
)

type PgxMonthRepository struct {
	BaseRepository
}

// newPgxMonthRepository creates a new repository for month data.
func newPgxMonthRepository(pool *pgxpool.Pool) portsrepo.MonthRepository {
	return &PgxMonthRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MonthRepository = (*PgxMonthRepository)(nil)

const monthColumns = `month_id, user_id, label, spending_limit, is_active, started_at, closed_at`

func scanMonth(row pgx.Row) (*domain.Month, error) {
	var m domain.Month
	err := row.Scan(
		&m.MonthID,
		&m.UserID,
		&m.Label,
		&m.SpendingLimit,
		&m.IsActive,
		&m.StartedAt,
		&m.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxMonthRepository) FindActiveMonth(ctx context.Context, userID string) (*domain.Month, error) {
	query := `
		SELECT ` + monthColumns + `
		FROM months
		WHERE user_id = $1 AND is_active;
	`
	month, err := scanMonth(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active month for user %s: %w", userID, err)
	}
	return month, nil
}

func (r *PgxMonthRepository) FindMonthByID(ctx context.Context, userID, monthID string) (*domain.Month, error) {
	query := `
		SELECT ` + monthColumns + `
		FROM months
		WHERE month_id = $1 AND user_id = $2;
	`
	month, err := scanMonth(r.Pool.QueryRow(ctx, query, monthID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find month %s: %w", monthID, err)
	}
	return month, nil
}

func (r *PgxMonthRepository) SaveMonth(ctx context.Context, month domain.Month) error {
	query := `
		INSERT INTO months (month_id, user_id, label, spending_limit, is_active, started_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		month.MonthID,
		month.UserID,
		month.Label,
		month.SpendingLimit,
		month.IsActive,
		month.StartedAt,
		month.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The partial unique index on (user_id) WHERE is_active fired:
			// another active month already exists for this user.
			return fmt.Errorf("%w: user %s already has an active month", apperrors.ErrDuplicate, month.UserID)
		}
		return fmt.Errorf("failed to save month %s: %w", month.MonthID, err)
	}
	return nil
}

// Rollover closes the active month and opens newMonth in one transaction so a
// reader never observes zero or two active months.
func (r *PgxMonthRepository) Rollover(ctx context.Context, userID string, closedAt time.Time, newMonth domain.Month) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	closeQuery := `
		UPDATE months
		SET is_active = FALSE, closed_at = $1
		WHERE user_id = $2 AND is_active
		RETURNING month_id;
	`
	var closedMonthID string
	err = tx.QueryRow(ctx, closeQuery, closedAt, userID).Scan(&closedMonthID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to close active month for user %s: %w", userID, err)
	}

	insertQuery := `
		INSERT INTO months (month_id, user_id, label, spending_limit, is_active, started_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, insertQuery,
		newMonth.MonthID,
		newMonth.UserID,
		newMonth.Label,
		newMonth.SpendingLimit,
		newMonth.IsActive,
		newMonth.StartedAt,
		newMonth.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: concurrent rollover already opened a month for user %s", apperrors.ErrDuplicate, userID)
		}
		return "", fmt.Errorf("failed to insert month %s during rollover: %w", newMonth.MonthID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return closedMonthID, nil
}

func (r *PgxMonthRepository) UpdateSpendingLimit(ctx context.Context, monthID string, limit decimal.Decimal) error {
	query := `
		UPDATE months
		SET spending_limit = $1
		WHERE month_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, limit, monthID)
	if err != nil {
		return fmt.Errorf("failed to update spending limit for month %s: %w", monthID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxMonthRepository) ListMonths(ctx context.Context, userID string, limit int) ([]domain.Month, error) {
	query := `
		SELECT ` + monthColumns + `
		FROM months
		WHERE user_id = $1
		ORDER BY started_at DESC
		LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list months for user %s: %w", userID, err)
	}
	defer rows.Close()

	months := make([]domain.Month, 0)
	for rows.Next() {
		month, err := scanMonth(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan month row: %w", err)
		}
		months = append(months, *month)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating month rows: %w", err)
	}
	return months, nil
}
