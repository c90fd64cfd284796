package repositories

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// CategoryRepository persists spending categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	FindCategoryByID(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	// FindCategoriesByIDs returns the subset of ids that exist, keyed by id.
	FindCategoriesByIDs(ctx context.Context, userID string, categoryIDs []string) (map[string]domain.Category, error)
	SaveCategory(ctx context.Context, category domain.Category) error
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}
