package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/labstack/echo/v4"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error types
const (
	ErrorTypeValidation   = "https://spendwise.app/errors/validation"
	ErrorTypeNotFound     = "https://spendwise.app/errors/not-found"
	ErrorTypeUnauthorized = "https://spendwise.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://spendwise.app/errors/forbidden"
	ErrorTypeConflict     = "https://spendwise.app/errors/conflict"
	ErrorTypeInternal     = "https://spendwise.app/errors/internal"
	ErrorTypeUnavailable  = "https://spendwise.app/errors/unavailable"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewServiceUnavailableError creates a service unavailable error response
func NewServiceUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// fieldErrors maps input validation errors to the request field they concern
var fieldErrors = []struct {
	err   error
	field string
}{
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameTooLong, "name"},
	{domain.ErrInvalidEmail, "email"},
	{domain.ErrWeakPassword, "password"},
	{domain.ErrInvalidCurrency, "currency"},
	{domain.ErrInvalidMonthStartDay, "monthStartDay"},
	{domain.ErrInvalidTimezone, "timezone"},
	{domain.ErrInvalidAmount, "amount"},
	{domain.ErrInvalidTransactionType, "type"},
	{domain.ErrInvalidPaymentMethod, "paymentMethod"},
	{domain.ErrCategoryNotFound, "categoryId"},
	{domain.ErrNotesTooLong, "note"},
	{domain.ErrInvalidDate, "date"},
	{domain.ErrInvalidTime, "time"},
	{domain.ErrInvalidFilter, "filter"},
	{domain.ErrInvalidSort, "sort"},
	{domain.ErrInvalidPagination, "page"},
	{domain.ErrInvalidResetToken, "token"},
	{domain.ErrResetTokenExpired, "token"},
	{domain.ErrImageTooLarge, "file"},
	{domain.ErrInvalidImageFormat, "file"},
	{domain.ErrImageTooSmall, "file"},
	{domain.ErrInvalidImageData, "file"},
}

// asValidationError renders err as a 400 when it is a known input error
func asValidationError(c echo.Context, err error) (bool, error) {
	for _, fe := range fieldErrors {
		if errors.Is(err, fe.err) {
			return true, NewValidationError(c, fe.err.Error(), []ValidationError{
				{Field: fe.field, Message: fe.err.Error()},
			})
		}
	}
	return false, nil
}
