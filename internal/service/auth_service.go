package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// resetTokenBytes is the entropy of a password reset token before hex encoding
const resetTokenBytes = 32

// Mailer sends the transactional emails of the auth flow
type Mailer interface {
	SendWelcome(to, name string) error
	SendPasswordReset(to, name, link string) error
}

// TokenIssuer issues session tokens for authenticated users
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, time.Time, error)
}

// AuthService handles authentication-related business logic
type AuthService struct {
	userRepo  domain.UserRepository
	resetRepo domain.PasswordResetRepository
	tokens    TokenIssuer
	mailer    Mailer
	appURL    string
	now       func() time.Time
	// background runs fire-and-forget work such as email delivery
	background func(func())
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo domain.UserRepository,
	resetRepo domain.PasswordResetRepository,
	tokens TokenIssuer,
	mailer Mailer,
	appURL string,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		resetRepo:  resetRepo,
		tokens:     tokens,
		mailer:     mailer,
		appURL:     appURL,
		now:        time.Now,
		background: func(fn func()) { go fn() },
	}
}

// SignupInput holds the input for creating an account
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned after a successful signup or login
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Signup creates a user with default settings and categories, then signs them in
func (s *AuthService) Signup(input SignupInput) (*AuthResult, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, _, err := s.userRepo.CreateWithCategories(&domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Currency:      domain.DefaultCurrency,
		MonthStartDay: domain.DefaultMonthStartDay,
		Timezone:      domain.DefaultTimezone,
	}, domain.DefaultCategories)
	if err != nil {
		if !errors.Is(err, domain.ErrEmailTaken) {
			log.Error().Err(err).Str("email", email).Msg("Failed to create account")
		}
		return nil, err
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.background(func() {
		if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to send welcome email")
		}
	})

	log.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	return result, nil
}

// Login verifies credentials. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(user)
}

// GetUserByID retrieves a user by their ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// RequestPasswordReset mails a reset link when the email belongs to a user.
// It succeeds for unknown addresses too so callers cannot enumerate accounts.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Debug().Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	// Only the newest link stays usable
	if err := s.resetRepo.DeleteByUser(user.ID); err != nil {
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	if _, err := s.resetRepo.Create(&domain.PasswordReset{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: s.now().Add(domain.PasswordResetTTL),
	}); err != nil {
		return err
	}

	link := s.appURL + "/reset-password?token=" + url.QueryEscape(token)
	s.background(func() {
		if err := s.mailer.SendPasswordReset(user.Email, user.Name, link); err != nil {
			log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to send password reset email")
		}
	})

	return nil
}

// ResetPassword sets a new password using a reset token. The token is single use.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	reset, err := s.resetRepo.GetByToken(token)
	if err != nil {
		return err
	}

	if reset.IsExpired(s.now()) {
		if err := s.resetRepo.Delete(reset.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to delete expired reset token")
		}
		return domain.ErrResetTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(reset.UserID, string(hash)); err != nil {
		return err
	}

	if err := s.resetRepo.DeleteByUser(reset.UserID); err != nil {
		return err
	}

	log.Info().Str("user_id", reset.UserID.String()).Msg("Password reset")
	return nil
}

// PurgeExpiredResets removes reset tokens that can no longer be used
func (s *AuthService) PurgeExpiredResets() (int64, error) {
	return s.resetRepo.DeleteExpired(s.now())
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func generateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
