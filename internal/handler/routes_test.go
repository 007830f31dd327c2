package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/auth"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) *echo.Echo {
	t.Helper()
	users := testutil.NewMockUserRepository()
	categories := testutil.NewMockCategoryRepository()
	transactions := testutil.NewMockTransactionRepository()

	v, err := auth.NewValidator(testJWTConfig)
	require.NoError(t, err)

	users.CategoryRepo = categories
	authService := service.NewAuthService(users, testutil.NewMockPasswordResetRepository(),
		auth.NewTokenIssuer(testJWTConfig), &testutil.MockMailer{}, "https://app.spendwise.test")
	hub := websocket.NewHub()

	e := echo.New()
	RegisterRoutes(e, middleware.NewAuthMiddleware(v), limiter, Handlers{
		Auth:        NewAuthHandler(authService),
		Profile:     NewProfileHandler(service.NewProfileService(users)),
		Transaction: NewTransactionHandler(service.NewTransactionService(transactions, categories, users)),
		Category:    NewCategoryHandler(service.NewCategoryService(categories)),
		Receipt:     NewReceiptHandler(service.NewReceiptService(transactions, nil)),
		Dashboard:   NewDashboardHandler(service.NewDashboardService(users, transactions, categories)),
		WebSocket:   NewWebSocketHandler(hub, websocket.NewJWTValidator(v), testAllowedOrigins),
	})
	return e
}

func TestRegisterRoutes_Table(t *testing.T) {
	limiter := middleware.NewRateLimiter(100, 100)
	defer limiter.Stop()
	e := newTestRouter(t, limiter)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"POST /api/v1/auth/signup",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/forgot-password",
		"POST /api/v1/auth/reset-password",
		"GET /api/v1/auth/me",
		"POST /api/v1/auth/logout",
		"GET /api/v1/users/me",
		"PUT /api/v1/users/me",
		"GET /api/v1/transactions",
		"POST /api/v1/transactions",
		"GET /api/v1/transactions/categories",
		"GET /api/v1/transactions/:id",
		"PUT /api/v1/transactions/:id",
		"DELETE /api/v1/transactions/:id",
		"POST /api/v1/transactions/:id/receipt",
		"GET /api/v1/transactions/:id/receipt",
		"DELETE /api/v1/transactions/:id/receipt",
		"GET /api/v1/dashboard/summary",
		"GET /api/v1/dashboard/trend",
		"GET /api/v1/dashboard/breakdown",
		"GET /ws",
	} {
		assert.True(t, registered[route], route)
	}
}

func TestRegisterRoutes_SignupThenDashboard(t *testing.T) {
	limiter := middleware.NewRateLimiter(100, 100)
	defer limiter.Stop()
	e := newTestRouter(t, limiter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, newJSONRequest(http.MethodPost, "/api/v1/auth/signup",
		`{"name":"Router User","email":"router@example.com","password":"Password1"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var session AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+session.Token)
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary DashboardSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "0.00", summary.TotalIncome)
	assert.Equal(t, 0, summary.TransactionCount)
	assert.Equal(t, "USD", summary.Currency)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/transactions/categories", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+session.Token)
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []CategoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.NotEmpty(t, categories)
}

func TestRegisterRoutes_AuthRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 1)
	defer limiter.Stop()
	e := newTestRouter(t, limiter)

	send := func() int {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, newJSONRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"nobody@example.com","password":"Password1"}`))
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}
