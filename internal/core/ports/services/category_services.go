package services

import (
	"context"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
)

// CategorySvcFacade manages spending categories.
type CategorySvcFacade interface {
	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}
