package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"artisan-market/internal/apperr"
	"artisan-market/internal/domain"
	"artisan-market/internal/repository"
	"artisan-market/internal/validation"

	"github.com/google/uuid"
)

// CategoryInput is the payload for creating or updating a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	ParentID    string `json:"parent_id" validate:"omitempty,uuid"`
	ImagePath   string `json:"image_path"`
	SEOKeywords string `json:"seo_keywords"`
	IsActive    bool   `json:"is_active"`
}

// CategoryService defines the interface for taxonomy management.
type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	category, err := categoryFromInput(input)
	if err != nil {
		return nil, err
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, apperr.Conflict("category name is already taken")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) GetAll(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperr.NotFound("category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (bool, error) {
	existing, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return false, apperr.NotFound("category not found")
		}
		return false, fmt.Errorf("failed to get category: %w", err)
	}

	if err := validation.Struct(input); err != nil {
		return false, err
	}

	updated, err := categoryFromInput(input)
	if err != nil {
		return false, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return false, nil
		}
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return false, apperr.Conflict("category name is already taken")
		}
		return false, fmt.Errorf("failed to update category: %w", err)
	}

	return true, nil
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return true, nil
}

func categoryFromInput(input CategoryInput) (*domain.Category, error) {
	category := &domain.Category{
		Name:        input.Name,
		Description: input.Description,
		ImagePath:   input.ImagePath,
		SEOKeywords: input.SEOKeywords,
		IsActive:    input.IsActive,
	}

	if input.ParentID != "" {
		parentID, err := uuid.Parse(input.ParentID)
		if err != nil {
			return nil, apperr.InvalidArgument("invalid parent category id")
		}
		category.ParentID = &parentID
	}

	return category, nil
}
