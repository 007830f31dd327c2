package service

import (
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
)

// CategoryService exposes a user's categories
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// GetCategories returns the user's active categories ordered by name
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetActive(userID)
}
