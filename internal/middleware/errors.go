package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// problemDetails mirrors handler.ProblemDetails. The handler package imports
// this one, so the type cannot be shared.
type problemDetails struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	errorTypeUnauthorized = "https://spendwise.app/errors/unauthorized"
	errorTypeRateLimit    = "https://spendwise.app/errors/rate-limit"
)

func writeProblem(c echo.Context, status int, errType, detail string, fields ...fieldError) error {
	return c.JSON(status, problemDetails{
		Type:     errType,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   fields,
	})
}

func unauthorizedError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusUnauthorized, errorTypeUnauthorized, detail)
}

// headerError rejects a request whose Authorization header is absent or malformed
func headerError(c echo.Context, detail string) error {
	return writeProblem(c, http.StatusUnauthorized, errorTypeUnauthorized, detail,
		fieldError{Field: "Authorization", Message: detail})
}
