package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
)

type PgxPaymentMethodRepository struct {
	BaseRepository
}

// newPgxPaymentMethodRepository creates a new repository for payment method data.
func newPgxPaymentMethodRepository(pool *pgxpool.Pool) portsrepo.PaymentMethodRepository {
	return &PgxPaymentMethodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentMethodRepository = (*PgxPaymentMethodRepository)(nil)

const paymentMethodColumns = `payment_method_id, user_id, name, created_at, updated_at`

func scanPaymentMethod(row pgx.Row) (*domain.PaymentMethod, error) {
	var pm domain.PaymentMethod
	err := row.Scan(
		&pm.PaymentMethodID,
		&pm.UserID,
		&pm.Name,
		&pm.CreatedAt,
		&pm.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *PgxPaymentMethodRepository) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE user_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods for user %s: %w", userID, err)
	}
	defer rows.Close()

	paymentMethods := make([]domain.PaymentMethod, 0)
	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment method row: %w", err)
		}
		paymentMethods = append(paymentMethods, *pm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows: %w", err)
	}
	return paymentMethods, nil
}

func (r *PgxPaymentMethodRepository) FindPaymentMethodByID(ctx context.Context, userID, paymentMethodID string) (*domain.PaymentMethod, error) {
	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE payment_method_id = $1 AND user_id = $2;
	`
	pm, err := scanPaymentMethod(r.Pool.QueryRow(ctx, query, paymentMethodID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment method %s: %w", paymentMethodID, err)
	}
	return pm, nil
}

func (r *PgxPaymentMethodRepository) FindPaymentMethodsByIDs(ctx context.Context, userID string, paymentMethodIDs []string) (map[string]domain.PaymentMethod, error) {
	result := make(map[string]domain.PaymentMethod, len(paymentMethodIDs))
	if len(paymentMethodIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + paymentMethodColumns + `
		FROM payment_methods
		WHERE user_id = $1 AND payment_method_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, userID, paymentMethodIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find payment methods by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment method row: %w", err)
		}
		result[pm.PaymentMethodID] = *pm
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment method rows: %w", err)
	}
	return result, nil
}

func (r *PgxPaymentMethodRepository) SavePaymentMethod(ctx context.Context, paymentMethod domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (payment_method_id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		paymentMethod.PaymentMethodID,
		paymentMethod.UserID,
		paymentMethod.Name,
		paymentMethod.CreatedAt,
		paymentMethod.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment method %q already exists for user", apperrors.ErrDuplicate, paymentMethod.Name)
		}
		return fmt.Errorf("failed to save payment method %s: %w", paymentMethod.PaymentMethodID, err)
	}
	return nil
}

func (r *PgxPaymentMethodRepository) UpdatePaymentMethod(ctx context.Context, paymentMethod domain.PaymentMethod) error {
	query := `
		UPDATE payment_methods
		SET name = $1, updated_at = $2
		WHERE payment_method_id = $3 AND user_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, paymentMethod.Name, paymentMethod.UpdatedAt, paymentMethod.PaymentMethodID, paymentMethod.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment method %q already exists for user", apperrors.ErrDuplicate, paymentMethod.Name)
		}
		return fmt.Errorf("failed to update payment method %s: %w", paymentMethod.PaymentMethodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPaymentMethodRepository) DeletePaymentMethod(ctx context.Context, userID, paymentMethodID string) error {
	query := `
		DELETE FROM payment_methods
		WHERE payment_method_id = $1 AND user_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, paymentMethodID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: payment method %s is still referenced", apperrors.ErrConflict, paymentMethodID)
		}
		return fmt.Errorf("failed to delete payment method %s: %w", paymentMethodID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
