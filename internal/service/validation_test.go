package service

import (
	"strings"
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := normalizeEmail("  Ana.Silva@Example.COM ")
	assert.NoError(t, err)
	assert.Equal(t, "ana.silva@example.com", got)

	for _, bad := range []string{"", "ana", "ana@", "@example.com", "ana@example", "ana silva@example.com"} {
		_, err := normalizeEmail(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail, bad)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Secret123", false},
		{"Sh0rt", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoDigitsHere", true},
	}

	for _, tt := range tests {
		err := validatePassword(tt.password)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrWeakPassword, tt.password)
		} else {
			assert.NoError(t, err, tt.password)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	got, err := normalizeName("  Ana  ")
	assert.NoError(t, err)
	assert.Equal(t, "Ana", got)

	_, err = normalizeName("   ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = normalizeName(strings.Repeat("a", domain.MaxNameLength+1))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)
}

func TestNormalizeCurrency(t *testing.T) {
	got, err := normalizeCurrency("inr")
	assert.NoError(t, err)
	assert.Equal(t, "INR", got)

	for _, bad := range []string{"", "EURO", "U$D", "12A"} {
		_, err := normalizeCurrency(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidCurrency, bad)
	}
}

func TestValidateMonthStartDay(t *testing.T) {
	assert.NoError(t, validateMonthStartDay(1))
	assert.NoError(t, validateMonthStartDay(28))
	assert.ErrorIs(t, validateMonthStartDay(0), domain.ErrInvalidMonthStartDay)
	assert.ErrorIs(t, validateMonthStartDay(29), domain.ErrInvalidMonthStartDay)
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, validateTimezone("UTC"))
	assert.NoError(t, validateTimezone("Asia/Kolkata"))
	assert.ErrorIs(t, validateTimezone(""), domain.ErrInvalidTimezone)
	assert.ErrorIs(t, validateTimezone("Local"), domain.ErrInvalidTimezone)
	assert.ErrorIs(t, validateTimezone("Mars/Olympus"), domain.ErrInvalidTimezone)
}
