package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// DefaultCategories are created for every new user
var DefaultCategories = []Category{
	{Name: "Food & Dining", Color: "#F97316"},
	{Name: "Transport", Color: "#3B82F6"},
	{Name: "Shopping", Color: "#EC4899"},
	{Name: "Bills & Utilities", Color: "#EAB308"},
	{Name: "Entertainment", Color: "#8B5CF6"},
	{Name: "Health", Color: "#10B981"},
	{Name: "Salary", Color: "#22C55E"},
	{Name: "Other", Color: "#6B7280"},
}

type CategoryRepository interface {
	GetByID(userID, id uuid.UUID) (*Category, error)
	// GetActive returns active categories ordered by name
	GetActive(userID uuid.UUID) ([]*Category, error)
	// GetAll includes inactive categories so historical transactions can still be labelled
	GetAll(userID uuid.UUID) ([]*Category, error)
	CreateMany(userID uuid.UUID, categories []Category) ([]*Category, error)
}
