package websocket

import (
	"context"
	"errors"

	"github.com/dafibh/spendwise/spendwise-backend/internal/auth"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ClaimsValidator validates a raw token and returns its claims
type ClaimsValidator interface {
	ValidateToken(ctx context.Context, token string) (interface{}, error)
}

// JWTValidator resolves the user behind a WebSocket token. Browsers cannot set
// headers on the upgrade request, so the token arrives as a query parameter.
type JWTValidator struct {
	validator ClaimsValidator
}

// NewJWTValidator creates a new JWTValidator
func NewJWTValidator(v ClaimsValidator) *JWTValidator {
	return &JWTValidator{validator: v}
}

// ValidateToken validates a JWT token and returns the user id it was issued for
func (v *JWTValidator) ValidateToken(token string) (uuid.UUID, error) {
	claims, err := v.validator.ValidateToken(context.Background(), token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := auth.UserIDFromClaims(claims)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}
