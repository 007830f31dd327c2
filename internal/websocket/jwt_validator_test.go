package websocket

import (
	"testing"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/auth"
	"github.com/dafibh/spendwise/spendwise-backend/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) (*JWTValidator, *auth.TokenIssuer) {
	t.Helper()
	cfg := config.JWTConfig{
		Secret:   "websocket-test-secret",
		Issuer:   "spendwise",
		Audience: "spendwise-api",
		TTL:      time.Hour,
	}
	v, err := auth.NewValidator(cfg)
	require.NoError(t, err)
	return NewJWTValidator(v), auth.NewTokenIssuer(cfg)
}

func TestJWTValidator_ValidToken(t *testing.T) {
	v, issuer := newTestValidator(t)
	userID := uuid.New()

	token, _, err := issuer.Issue(userID)
	require.NoError(t, err)

	got, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTValidator_InvalidToken(t *testing.T) {
	v, _ := newTestValidator(t)

	userID, err := v.ValidateToken("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Equal(t, uuid.Nil, userID)
}

func TestErrInvalidToken_Message(t *testing.T) {
	assert.Equal(t, "invalid token", ErrInvalidToken.Error())
}
