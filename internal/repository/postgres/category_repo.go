package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, user_id, name, color, is_active, created_at`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetByID retrieves a category owned by the user
func (r *CategoryRepository) GetByID(userID, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetActive returns the user's active categories ordered by name
func (r *CategoryRepository) GetActive(userID uuid.UUID) ([]*domain.Category, error) {
	return r.query(
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 AND is_active ORDER BY name`, userID)
}

// GetAll returns every category of the user, inactive ones included
func (r *CategoryRepository) GetAll(userID uuid.UUID) ([]*domain.Category, error) {
	return r.query(
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = $1 ORDER BY name`, userID)
}

// CreateMany inserts categories for the user in a single transaction
func (r *CategoryRepository) CreateMany(userID uuid.UUID, categories []domain.Category) ([]*domain.Category, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created := make([]*domain.Category, 0, len(categories))
	for _, cat := range categories {
		var c domain.Category
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (user_id, name, color)
			VALUES ($1, $2, $3)
			RETURNING `+categoryColumns,
			userID, cat.Name, cat.Color,
		).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert category %q: %w", cat.Name, err)
		}
		created = append(created, &c)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return created, nil
}

func (r *CategoryRepository) query(sql string, args ...interface{}) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(), sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}
