package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password_hash, currency, month_start_day, timezone, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail retrieves a user by email, ignoring case
func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
	return scanUser(row)
}

// CreateWithCategories inserts the user and its categories in one transaction,
// so a failed category insert leaves no user row behind
func (r *UserRepository) CreateWithCategories(user *domain.User, categories []domain.Category) (*domain.User, []*domain.Category, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, currency, month_start_day, timezone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		user.Name, user.Email, user.PasswordHash, user.Currency, user.MonthStartDay, user.Timezone,
	))
	if err != nil {
		if isPgError(err, uniqueViolation) {
			return nil, nil, domain.ErrEmailTaken
		}
		return nil, nil, err
	}

	seeded := make([]*domain.Category, 0, len(categories))
	for _, cat := range categories {
		var c domain.Category
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (user_id, name, color)
			VALUES ($1, $2, $3)
			RETURNING `+categoryColumns,
			created.ID, cat.Name, cat.Color,
		).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.IsActive, &c.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("insert category %q: %w", cat.Name, err)
		}
		seeded = append(seeded, &c)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return created, seeded, nil
}

// UpdateProfile changes the fields set in update and leaves the rest untouched
func (r *UserRepository) UpdateProfile(id uuid.UUID, update domain.UserProfileUpdate) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE users SET
			name            = COALESCE($2, name),
			currency        = COALESCE($3, currency),
			month_start_day = COALESCE($4, month_start_day),
			timezone        = COALESCE($5, timezone),
			updated_at      = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, update.Name, update.Currency, update.MonthStartDay, update.Timezone,
	)
	return scanUser(row)
}

// UpdatePasswordHash replaces the stored password hash
func (r *UserRepository) UpdatePasswordHash(id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Currency,
		&u.MonthStartDay, &u.Timezone, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
