package repositories

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// RecurringTemplateRepository persists recurring expense templates.
type RecurringTemplateRepository interface {
	// ListTemplates returns all of the user's templates ordered by name.
	ListTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error)

	// ListActiveTemplates returns only templates with IsActive = true.
	ListActiveTemplates(ctx context.Context, userID string) ([]domain.RecurringTemplate, error)

	// FindTemplateByID returns the template only if it belongs to the user.
	FindTemplateByID(ctx context.Context, userID, templateID string) (*domain.RecurringTemplate, error)

	// SaveTemplate inserts a new template.
	SaveTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// UpdateTemplate persists a full template row (used for partial updates
	// after the service merges fields).
	UpdateTemplate(ctx context.Context, template domain.RecurringTemplate) error

	// DeleteTemplate removes the template. Historical transactions generated
	// from it are untouched.
	DeleteTemplate(ctx context.Context, userID, templateID string) error

	// SetLastGeneratedMonth updates the informational cache column only.
	SetLastGeneratedMonth(ctx context.Context, templateID, monthID string) error
}
