package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spendmeter/spendmeter_backend/internal/apperrors"
	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
	portsrepo "github.com/spendmeter/spendmeter_backend/internal/core/ports/repositories"
	portssvc "github.com/spendmeter/spendmeter_backend/internal/core/ports/services"
	"github.com/spendmeter/spendmeter_backend/internal/dto"
	"github.com/spendmeter/spendmeter_backend/internal/platform/civiltime"
)

// categoryService implements the CategorySvcFacade.
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepository
	clock        civiltime.Clock
}

// NewCategoryService creates the category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepository, clock civiltime.Clock) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo, clock: clock}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, userID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("category name must not be empty")
	}

	now := s.clock.Now()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		UserID:     userID,
		Name:       name,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("a category with this name already exists")
		}
		s.LogError(ctx, err, "Failed to save category", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Category created", slog.String("category_id", category.CategoryID), slog.String("name", name))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("category name must not be empty")
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, userID, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category", slog.String("category_id", categoryID))
		}
		return nil, err
	}

	category.Name = name
	category.UpdatedAt = s.clock.Now()

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("a category with this name already exists")
		}
		s.LogError(ctx, err, "Failed to update category", slog.String("category_id", categoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category updated", slog.String("category_id", categoryID))
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	if err := s.categoryRepo.DeleteCategory(ctx, userID, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("category is still referenced by transactions or templates")
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete category", slog.String("category_id", categoryID))
		}
		return err
	}
	s.LogInfo(ctx, "Category deleted", slog.String("category_id", categoryID))
	return nil
}
