package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newProfileTestUser(userRepo *testutil.MockUserRepository) *domain.User {
	user := &domain.User{
		ID:            uuid.New(),
		Name:          "Test User",
		Email:         "test@example.com",
		Currency:      "USD",
		MonthStartDay: 1,
		Timezone:      "UTC",
	}
	userRepo.AddUser(user)
	return user
}

func TestGetProfile_Success(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewProfileHandler(service.NewProfileService(userRepo))
	user := newProfileTestUser(userRepo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID)

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.ID != user.ID.String() || response.Timezone != "UTC" {
		t.Errorf("Unexpected profile %+v", response)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	e := echo.New()
	handler := NewProfileHandler(service.NewProfileService(testutil.NewMockUserRepository()))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, uuid.New())

	if err := handler.GetProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"all fields", `{"name":"New Name","currency":"inr","monthStartDay":25,"timezone":"Asia/Kolkata"}`, http.StatusOK, ""},
		{"only month start day", `{"monthStartDay":10}`, http.StatusOK, ""},
		{"empty body", `{}`, http.StatusBadRequest, ""},
		{"month start day too large", `{"monthStartDay":31}`, http.StatusBadRequest, "monthStartDay"},
		{"bad currency", `{"currency":"dollars"}`, http.StatusBadRequest, "currency"},
		{"bad timezone", `{"timezone":"Nowhere/Special"}`, http.StatusBadRequest, "timezone"},
		{"blank name", `{"name":"  "}`, http.StatusBadRequest, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			userRepo := testutil.NewMockUserRepository()
			handler := NewProfileHandler(service.NewProfileService(userRepo))
			user := newProfileTestUser(userRepo)

			req := newJSONRequest(http.MethodPut, "/api/v1/users/me", tt.body)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			setupAuthContext(c, user.ID)

			if err := handler.UpdateProfile(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantField != "" {
				problem := decodeProblem(t, rec)
				if len(problem.Errors) == 0 || problem.Errors[0].Field != tt.wantField {
					t.Errorf("Expected %s field error, got %+v", tt.wantField, problem.Errors)
				}
			}
		})
	}
}

func TestUpdateProfile_AppliesNormalizedValues(t *testing.T) {
	e := echo.New()
	userRepo := testutil.NewMockUserRepository()
	handler := NewProfileHandler(service.NewProfileService(userRepo))
	user := newProfileTestUser(userRepo)

	req := newJSONRequest(http.MethodPut, "/api/v1/users/me", `{"currency":"eur","monthStartDay":28}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, user.ID)

	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response UserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Currency != "EUR" || response.MonthStartDay != 28 {
		t.Errorf("Expected EUR/28, got %s/%d", response.Currency, response.MonthStartDay)
	}
	if response.Name != "Test User" {
		t.Errorf("Expected name unchanged, got %s", response.Name)
	}
}
