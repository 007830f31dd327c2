package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PasswordResetRepository implements domain.PasswordResetRepository using PostgreSQL
type PasswordResetRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(pool *pgxpool.Pool) *PasswordResetRepository {
	return &PasswordResetRepository{pool: pool}
}

// Create stores a reset token
func (r *PasswordResetRepository) Create(reset *domain.PasswordReset) (*domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := r.pool.QueryRow(context.Background(), `
		INSERT INTO password_resets (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, token, expires_at, created_at`,
		reset.UserID, reset.Token, reset.ExpiresAt,
	).Scan(&p.ID, &p.UserID, &p.Token, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByToken looks a reset up by its token, expired or not
func (r *PasswordResetRepository) GetByToken(token string) (*domain.PasswordReset, error) {
	var p domain.PasswordReset
	err := r.pool.QueryRow(context.Background(),
		`SELECT id, user_id, token, expires_at, created_at FROM password_resets WHERE token = $1`, token,
	).Scan(&p.ID, &p.UserID, &p.Token, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, err
	}
	return &p, nil
}

// Delete removes a single reset
func (r *PasswordResetRepository) Delete(id uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM password_resets WHERE id = $1`, id)
	return err
}

// DeleteByUser removes every outstanding reset of the user
func (r *PasswordResetRepository) DeleteByUser(userID uuid.UUID) error {
	_, err := r.pool.Exec(context.Background(), `DELETE FROM password_resets WHERE user_id = $1`, userID)
	return err
}

// DeleteExpired purges resets that expired before now and reports how many were removed
func (r *PasswordResetRepository) DeleteExpired(now time.Time) (int64, error) {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM password_resets WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
