package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultMonthStartDay = 1
	MinMonthStartDay     = 1
	// MaxMonthStartDay keeps every boundary date valid in February.
	MaxMonthStartDay = 28
	DefaultCurrency  = "USD"
	DefaultTimezone  = "UTC"
)

// User represents an account holder
type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Currency      string    `json:"currency"`
	MonthStartDay int       `json:"monthStartDay"`
	Timezone      string    `json:"timezone"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Location resolves the user's timezone, falling back to UTC when unset or unknown
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// UserProfileUpdate holds the optional profile fields a user may change
type UserProfileUpdate struct {
	Name          *string
	Currency      *string
	MonthStartDay *int
	Timezone      *string
}

// IsEmpty reports whether no field is set
func (u UserProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Currency == nil && u.MonthStartDay == nil && u.Timezone == nil
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByEmail(email string) (*User, error)
	// CreateWithCategories stores the user and its starting categories atomically
	CreateWithCategories(user *User, categories []Category) (*User, []*Category, error)
	UpdateProfile(id uuid.UUID, update UserProfileUpdate) (*User, error)
	UpdatePasswordHash(id uuid.UUID, passwordHash string) error
}
