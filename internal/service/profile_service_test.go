package service

import (
	"testing"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/testutil"
	"github.com/google/uuid"
)

func newProfileUser(userRepo *testutil.MockUserRepository) *domain.User {
	user := &domain.User{
		ID:            uuid.New(),
		Name:          "Old Name",
		Email:         "profile@example.com",
		Currency:      "USD",
		MonthStartDay: 1,
		Timezone:      "UTC",
	}
	userRepo.AddUser(user)
	return user
}

func TestGetProfile_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo)
	existing := newProfileUser(userRepo)

	user, err := profileService.GetProfile(existing.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.Email != "profile@example.com" {
		t.Errorf("Expected email 'profile@example.com', got %s", user.Email)
	}
}

func TestGetProfile_UserNotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo)

	_, err := profileService.GetProfile(uuid.New())
	if err != domain.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	publisher := &testutil.MockEventPublisher{}
	profileService := NewProfileService(userRepo)
	profileService.SetEventPublisher(publisher)
	existing := newProfileUser(userRepo)

	name := "  New Name "
	currency := "eur"
	day := 25
	tz := "Europe/Berlin"
	user, err := profileService.UpdateProfile(existing.ID, domain.UserProfileUpdate{
		Name:          &name,
		Currency:      &currency,
		MonthStartDay: &day,
		Timezone:      &tz,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.Name != "New Name" {
		t.Errorf("Expected trimmed name, got %q", user.Name)
	}
	if user.Currency != "EUR" {
		t.Errorf("Expected upper-cased currency, got %s", user.Currency)
	}
	if user.MonthStartDay != 25 || user.Timezone != "Europe/Berlin" {
		t.Errorf("Expected month start day and timezone to change, got %d %s", user.MonthStartDay, user.Timezone)
	}
	if user.Email != "profile@example.com" {
		t.Errorf("Expected email to remain unchanged, got %s", user.Email)
	}

	types := publisher.Types()
	if len(types) != 1 || types[0] != "profile.updated" {
		t.Errorf("Expected profile.updated event, got %v", types)
	}
}

func TestUpdateProfile_PartialKeepsOtherFields(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo)
	existing := newProfileUser(userRepo)

	day := 15
	user, err := profileService.UpdateProfile(existing.ID, domain.UserProfileUpdate{MonthStartDay: &day})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if user.MonthStartDay != 15 {
		t.Errorf("Expected month start day 15, got %d", user.MonthStartDay)
	}
	if user.Name != "Old Name" || user.Currency != "USD" {
		t.Errorf("Expected other fields untouched, got %s %s", user.Name, user.Currency)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	empty := ""
	badCurrency := "EURO"
	badDay := 29
	zeroDay := 0
	badTZ := "Mars/Olympus"

	tests := []struct {
		name    string
		update  domain.UserProfileUpdate
		wantErr error
	}{
		{"no fields", domain.UserProfileUpdate{}, domain.ErrNoFieldsToUpdate},
		{"empty name", domain.UserProfileUpdate{Name: &empty}, domain.ErrNameRequired},
		{"bad currency", domain.UserProfileUpdate{Currency: &badCurrency}, domain.ErrInvalidCurrency},
		{"day above 28", domain.UserProfileUpdate{MonthStartDay: &badDay}, domain.ErrInvalidMonthStartDay},
		{"day zero", domain.UserProfileUpdate{MonthStartDay: &zeroDay}, domain.ErrInvalidMonthStartDay},
		{"unknown timezone", domain.UserProfileUpdate{Timezone: &badTZ}, domain.ErrInvalidTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := testutil.NewMockUserRepository()
			profileService := NewProfileService(userRepo)
			existing := newProfileUser(userRepo)

			_, err := profileService.UpdateProfile(existing.ID, tt.update)
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
			if existing.Name != "Old Name" || existing.MonthStartDay != 1 {
				t.Error("Expected user to stay unchanged")
			}
		})
	}
}

func TestUpdateProfile_UserNotFound(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	profileService := NewProfileService(userRepo)

	name := "Someone"
	_, err := profileService.UpdateProfile(uuid.New(), domain.UserProfileUpdate{Name: &name})
	if err != domain.ErrUserNotFound {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}
