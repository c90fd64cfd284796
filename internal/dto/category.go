package dto

import (
	"time"

	"github.com/spendmeter/spendmeter_backend/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest renames a category.
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CategoryResponse defines the data returned for a category.
type CategoryResponse struct {
	CategoryID string    `json:"categoryID"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ListCategoriesResponse wraps the list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// ToCategoryResponse converts a domain.Category to its response DTO.
func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		CreatedAt:  c.CreatedAt,
	}
}

// ToListCategoriesResponse converts a slice of categories to the list DTO.
func ToListCategoriesResponse(categories []domain.Category) ListCategoriesResponse {
	res := ListCategoriesResponse{Categories: make([]CategoryResponse, len(categories))}
	for i := range categories {
		res.Categories[i] = ToCategoryResponse(&categories[i])
	}
	return res
}
