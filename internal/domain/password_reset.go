package domain

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetTTL is how long a reset token stays valid
const PasswordResetTTL = time.Hour

type PasswordReset struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token has passed its expiry at now
func (p *PasswordReset) IsExpired(now time.Time) bool {
	return p.ExpiresAt.Before(now)
}

type PasswordResetRepository interface {
	Create(reset *PasswordReset) (*PasswordReset, error)
	GetByToken(token string) (*PasswordReset, error)
	Delete(id uuid.UUID) error
	DeleteByUser(userID uuid.UUID) error
	DeleteExpired(now time.Time) (int64, error)
}
