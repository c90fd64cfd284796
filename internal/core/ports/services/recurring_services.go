package services

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// EnsureAppliedResult reports what a single materializer invocation created.
type EnsureAppliedResult struct {
	CreatedCount          int
	CreatedTransactionIDs []string
}

// RecurringSvcFacade manages recurring templates and materializes their
// monthly instances.
type RecurringSvcFacade interface {
	ListTemplates(ctx context.Context, userID string) (*dto.ListRecurringTemplatesResponse, error)
	CreateTemplate(ctx context.Context, userID string, req dto.CreateRecurringTemplateRequest) (*domain.RecurringTemplate, error)
	UpdateTemplate(ctx context.Context, userID, templateID string, req dto.UpdateRecurringTemplateRequest) (*domain.RecurringTemplate, error)
	DeleteTemplate(ctx context.Context, userID, templateID string) error

	// EnsureApplied guarantees each active template has posted exactly one
	// transaction into the given month once its due day has passed, and never
	// more than once. Safe to call unboundedly often, including concurrently;
	// duplicate-insert races resolve to a single surviving instance. Callers
	// must pass the user's active month.
	EnsureApplied(ctx context.Context, userID, monthID string) (*EnsureAppliedResult, error)
}
