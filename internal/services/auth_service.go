package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/repository"
	"github.com/onboarding-portal/api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidLogin       = errors.New("login must be one letter followed by 8 digits")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserNotFound       = errors.New("user not found")
)

// loginPattern matches a normalized login: one letter, eight digits.
var loginPattern = regexp.MustCompile(`^[A-Z][0-9]{8}$`)

// NormalizeLogin trims and uppercases a login and validates it against
// the fixed pattern.
func NormalizeLogin(login string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(login))
	if !loginPattern.MatchString(normalized) {
		return "", ErrInvalidLogin
	}
	return normalized, nil
}

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Login    string
	Password string
}

// Login verifies credentials and returns the authenticated user. The
// login is normalized and pattern-checked before any credential lookup;
// an unknown login and a wrong password are indistinguishable to the
// caller.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	login, err := NormalizeLogin(input.Login)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByLogin(login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.VerifyPassword(input.Password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
