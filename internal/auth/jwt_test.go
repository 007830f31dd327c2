package auth

import (
	"context"
	"testing"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/spendwise/spendwise-backend/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   "test-secret-with-enough-length",
		Issuer:   "spendwise",
		Audience: "spendwise-api",
		TTL:      time.Hour,
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	issuer := NewTokenIssuer(cfg)
	v, err := NewValidator(cfg)
	require.NoError(t, err)

	userID := uuid.New()
	token, expiresAt, err := issuer.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := v.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	got, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenIssuer_WrongSecretRejected(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := NewTokenIssuer(cfg).Issue(uuid.New())
	require.NoError(t, err)

	other := cfg
	other.Secret = "a-completely-different-secret"
	v, err := NewValidator(other)
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenIssuer_ExpiredRejected(t *testing.T) {
	cfg := testJWTConfig()
	issuer := NewTokenIssuer(cfg)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	v, err := NewValidator(cfg)
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestTokenIssuer_WrongAudienceRejected(t *testing.T) {
	cfg := testJWTConfig()
	token, _, err := NewTokenIssuer(cfg).Issue(uuid.New())
	require.NoError(t, err)

	other := cfg
	other.Audience = "someone-else"
	v, err := NewValidator(other)
	require.NoError(t, err)

	_, err = v.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestUserIDFromClaims(t *testing.T) {
	id := uuid.New()

	got, err := UserIDFromClaims(&validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: id.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = UserIDFromClaims(&validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{Subject: "auth0|123"},
	})
	assert.ErrorIs(t, err, ErrInvalidSubject)

	_, err = UserIDFromClaims("not claims")
	assert.ErrorIs(t, err, ErrInvalidSubject)
}
