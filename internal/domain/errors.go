package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("email already in use")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidEmail           = errors.New("invalid email")
	ErrWeakPassword           = errors.New("password does not meet requirements")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrInvalidCurrency        = errors.New("invalid currency code")
	ErrInvalidMonthStartDay   = errors.New("month start day must be between 1 and 28")
	ErrInvalidTimezone        = errors.New("invalid timezone")
	ErrNoFieldsToUpdate       = errors.New("no fields to update")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidAmount          = errors.New("amount must be a positive number")
	ErrInvalidTransactionType = errors.New("type must be either expense or income")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrCategoryNotFound       = errors.New("category not found")
	ErrNotesTooLong           = errors.New("note exceeds maximum length")
	ErrInvalidResetToken      = errors.New("invalid reset token")
	ErrResetTokenExpired      = errors.New("reset token has expired")
	ErrInvalidDate            = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidTime            = errors.New("time must be formatted as HH:MM")
	ErrInvalidFilter          = errors.New("filter must be one of current, previous, all")
	ErrInvalidSort            = errors.New("sort must be either newest or oldest")
	ErrInvalidPagination      = errors.New("page must be at least 1 and pageSize between 1 and 50")
	ErrReceiptNotFound        = errors.New("receipt not found")
	ErrImageTooLarge          = errors.New("file too large, maximum size is 5MB")
	ErrInvalidImageFormat     = errors.New("invalid format, supported: JPEG, PNG")
	ErrImageTooSmall          = errors.New("image too small, minimum 50x50 pixels")
	ErrInvalidImageData       = errors.New("invalid image data")
	ErrStorageNotConfigured   = errors.New("receipt storage not configured")
)

// Validation constants
const (
	MaxNameLength     = 100
	MaxNoteLength     = 1000
	MinPasswordLength = 8
)
