package service

import (
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo  domain.UserRepository
	publisher websocket.EventPublisher
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// SetEventPublisher sets the event publisher for profile changes
func (s *ProfileService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.publisher = publisher
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile validates and applies the fields present in update
func (s *ProfileService) UpdateProfile(userID uuid.UUID, update domain.UserProfileUpdate) (*domain.User, error) {
	if update.IsEmpty() {
		return nil, domain.ErrNoFieldsToUpdate
	}

	if update.Name != nil {
		name, err := normalizeName(*update.Name)
		if err != nil {
			return nil, err
		}
		update.Name = &name
	}
	if update.Currency != nil {
		currency, err := normalizeCurrency(*update.Currency)
		if err != nil {
			return nil, err
		}
		update.Currency = &currency
	}
	if update.MonthStartDay != nil {
		if err := validateMonthStartDay(*update.MonthStartDay); err != nil {
			return nil, err
		}
	}
	if update.Timezone != nil {
		if err := validateTimezone(*update.Timezone); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.UpdateProfile(userID, update)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(userID, websocket.ProfileUpdated(user))
	}
	return user, nil
}
