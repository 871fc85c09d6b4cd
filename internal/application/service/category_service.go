package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/restaurant-pos/internal/domain/entity"
	"github.com/sangkips/restaurant-pos/internal/domain/repository"
	"github.com/sangkips/restaurant-pos/pkg/apperror"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput represents the create/update category input
type CategoryInput struct {
	Name        string
	Description *string
	Active      *bool
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldValidationError("name", "name is required")
	}

	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewFieldValidationError("name", "a category with this name already exists")
	}

	category := &entity.Category{
		Name:        name,
		Description: trimmed(input.Description),
		Active:      true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists categories, optionally including inactive ones
func (s *CategoryService) ListCategories(ctx context.Context, includeInactive bool) ([]entity.Category, error) {
	return s.categoryRepo.List(ctx, includeInactive)
}

// Menu returns active categories with their active products
func (s *CategoryService) Menu(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.ListWithActiveProducts(ctx)
}

// UpdateCategory updates a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != category.Name {
		existing, err := s.categoryRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, apperror.NewFieldValidationError("name", "a category with this name already exists")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = trimmed(input.Description)
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deactivates a category. Categories that still hold products are kept active.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.categoryRepo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.NewInvalidStateError("Category still has products")
	}

	category.Active = false
	return s.categoryRepo.Update(ctx, category)
}
