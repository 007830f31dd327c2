package service

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
)

// normalizeEmail trims and lowercases an address, then checks its shape
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return "", domain.ErrInvalidEmail
	}
	return email, nil
}

// validatePassword requires at least MinPasswordLength characters with an
// upper case letter, a lower case letter and a digit
func validatePassword(password string) error {
	if len(password) < domain.MinPasswordLength {
		return domain.ErrWeakPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return domain.ErrWeakPassword
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len([]rune(name)) > domain.MaxNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

func normalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !currencyPattern.MatchString(currency) {
		return "", domain.ErrInvalidCurrency
	}
	return currency, nil
}

func validateMonthStartDay(day int) error {
	if day < domain.MinMonthStartDay || day > domain.MaxMonthStartDay {
		return domain.ErrInvalidMonthStartDay
	}
	return nil
}

func validateTimezone(tz string) error {
	// LoadLocation accepts "" and "Local", neither of which is a stable user setting
	if tz == "" || tz == "Local" {
		return domain.ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return domain.ErrInvalidTimezone
	}
	return nil
}
