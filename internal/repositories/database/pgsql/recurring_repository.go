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

type PgxRecurringTemplateRepository struct {
	BaseRepository
}

// newPgxRecurringTemplateRepository creates a new repository for recurring template data.
func newPgxRecurringTemplateRepository(pool *pgxpool.Pool) portsrepo.RecurringTemplateRepository {
	return &PgxRecurringTemplateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringTemplateRepository = (*PgxRecurringTemplateRepository)(nil)

const templateColumns = `template_id, user_id, name, amount, due_day, category_id, merchant, payment_method_id, is_active, last_generated_month_id, created_at, updated_at`

func scanTemplate(row pgx.Row) (*domain.RecurringTemplate, error) {
	var t domain.RecurringTemplate
	err := row.Scan(
		&t.TemplateID,
		&t.UserID,
		&t.Name,
		&t.Amount,
		&t.DueDay,
		&t.CategoryID,
		&t.Merchant,
		&t.PaymentMethodID,
		&t.IsActive,
		&t.LastGeneratedMonthID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxRecurringTemplateRepository) listTemplates(ctx context.Context, userID string, activeOnly bool) ([]domain.RecurringTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM recurring_templates
		WHERE user_id = $1
	`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring templates for user %s: %w", userID, err)
	}
	defer rows.Close()

	templates := make([]domain.RecurringTemplate, 0)
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring template row: %w", err)
		}
		templates = append(templates, *template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring template rows: %w", err)
	}
	return templates, nil
}

func (r *PgxRecurringTemplateRepository) ListTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error) {
	return r.listTemplates(ctx, userID, false)
}

func (r *PgxRecurringTemplateRepository) ListActiveTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error) {
	return r.listTemplates(ctx, userID, true)
}

func (r *PgxRecurringTemplateRepository) FindTemplateByID(ctx context.Context, userID, templateID string) (*domain.RecurringTemplate, error) {
	query := `
		SELECT ` + templateColumns + `
		FROM recurring_templates
		WHERE template_id = $1 AND user_id = $2;
	`
	template, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurring template %s: %w", templateID, err)
	}
	return template, nil
}

func (r *PgxRecurringTemplateRepository) SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	query := `
		INSERT INTO recurring_templates (template_id, user_id, name, amount, due_day, category_id, merchant, payment_method_id, is_active, last_generated_month_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		template.TemplateID,
		template.UserID,
		template.Name,
		template.Amount,
		template.DueDay,
		template.CategoryID,
		template.Merchant,
		template.PaymentMethodID,
		template.IsActive,
		template.LastGeneratedMonthID,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recurring template %s already exists", apperrors.ErrDuplicate, template.TemplateID)
		}
		return fmt.Errorf("failed to save recurring template %s: %w", template.TemplateID, err)
	}
	return nil
}

func (r *PgxRecurringTemplateRepository) UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error {
	query := `
		UPDATE recurring_templates
		SET name = $1, amount = $2, due_day = $3, category_id = $4, merchant = $5, payment_method_id = $6, is_active = $7, updated_at = $8
		WHERE template_id = $9 AND user_id = $10;
	`
	tag, err := r.Pool.Exec(ctx, query,
		template.Name,
		template.Amount,
		template.DueDay,
		template.CategoryID,
		template.Merchant,
		template.PaymentMethodID,
		template.IsActive,
		template.UpdatedAt,
		template.TemplateID,
		template.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurring template %s: %w", template.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecurringTemplateRepository) DeleteTemplate(ctx context.Context, userID, templateID string) error {
	query := `
		DELETE FROM recurring_templates
		WHERE template_id = $1 AND user_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, templateID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete recurring template %s: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxRecurringTemplateRepository) SetLastGeneratedMonth(ctx context.Context, templateID, monthID string) error {
	query := `
		UPDATE recurring_templates
		SET last_generated_month_id = $1
		WHERE template_id = $2;
	`
	_, err := r.Pool.Exec(ctx, query, monthID, templateID)
	if err != nil {
		return fmt.Errorf("failed to update last generated month for template %s: %w", templateID, err)
	}
	return nil
}
