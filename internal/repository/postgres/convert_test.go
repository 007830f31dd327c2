package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "0.01", "12.50", "99999999.99", "1234.5678"} {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)

			num, err := decimalToPgNumeric(d)
			require.NoError(t, err)

			assert.True(t, d.Equal(pgNumericToDecimal(num)))
		})
	}
}

func TestPgNumericToDecimal_Invalid(t *testing.T) {
	assert.True(t, pgNumericToDecimal(pgtype.Numeric{}).IsZero())
}

func TestTextHelpers(t *testing.T) {
	note := "lunch"

	assert.Equal(t, pgtype.Text{String: "lunch", Valid: true}, stringPtrToPgText(&note))
	assert.False(t, stringPtrToPgText(nil).Valid)

	assert.Equal(t, &note, pgTextToStringPtr(pgtype.Text{String: "lunch", Valid: true}))
	assert.Nil(t, pgTextToStringPtr(pgtype.Text{}))
}

func TestIsPgError(t *testing.T) {
	dup := &pgconn.PgError{Code: uniqueViolation}

	assert.True(t, isPgError(dup, uniqueViolation))
	assert.True(t, isPgError(fmt.Errorf("insert user: %w", dup), uniqueViolation))
	assert.False(t, isPgError(dup, foreignKeyViolation))
	assert.False(t, isPgError(errors.New("boom"), uniqueViolation))
}
