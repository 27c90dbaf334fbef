package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/repository"
	"github.com/onboarding-portal/api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrLoginTaken            = errors.New("login already exists")
	ErrPasswordRequired      = errors.New("password is required")
	ErrInvalidRole           = errors.New("invalid role")
	ErrInvalidStage          = errors.New("invalid stage")
	ErrMentorNotFound        = errors.New("mentor not found")
	ErrNotOwnProfile         = errors.New("can only update own profile")
	ErrRoleChangeForbidden   = errors.New("only admin can change role")
	ErrStageChangeForbidden  = errors.New("only admin can change stage")
	ErrPasswordSetForbidden  = errors.New("only admin can set password")
	ErrMentorChangeForbidden = errors.New("only admin can set mentor")
	ErrFailedToHashPassword  = errors.New("failed to hash password")
)

// UserService handles user management business logic.
type UserService struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, contactRepo repository.ContactRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		contactRepo: contactRepo,
	}
}

// CreateUserInput represents the fields an administrator supplies for a
// new user.
type CreateUserInput struct {
	Login    string
	Name     *string
	Password string
	Role     *models.UserRole
	Stage    *models.Stage
	MentorID *uint64
}

// Create validates and creates a user.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	login, err := NormalizeLogin(input.Login)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrPasswordRequired
	}

	role := models.RoleUser
	if input.Role != nil {
		if !models.ValidRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		role = *input.Role
	}

	stage := models.StageOne
	if input.Stage != nil {
		if !models.ValidStage(*input.Stage) {
			return nil, ErrInvalidStage
		}
		stage = *input.Stage
	}

	if input.MentorID != nil {
		if err := s.ensureMentorExists(*input.MentorID); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.FindByLogin(login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check login: %w", err)
	}

	hash, salt, err := utils.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Login:        login,
		Name:         normalizeName(input.Name),
		Role:         role,
		CurrentStage: stage,
		MentorID:     input.MentorID,
		PasswordHash: hash,
		PasswordSalt: salt,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUserInput represents a partial user update. Nil fields are left
// untouched; ClearMentor removes the mentor reference.
type UpdateUserInput struct {
	Name        *string
	Stage       *models.Stage
	Role        *models.UserRole
	Password    *string
	MentorID    *uint64
	ClearMentor bool
}

// Update applies a partial update on behalf of actor. A regular user
// may only rename themselves; everything else is administrator-gated.
func (s *UserService) Update(actor *models.User, id uint64, input UpdateUserInput) (*models.User, error) {
	if !actor.IsAdmin() {
		if actor.ID != id {
			return nil, ErrNotOwnProfile
		}
		if input.Role != nil {
			return nil, ErrRoleChangeForbidden
		}
		if input.Stage != nil {
			return nil, ErrStageChangeForbidden
		}
		if input.Password != nil {
			return nil, ErrPasswordSetForbidden
		}
		if input.MentorID != nil || input.ClearMentor {
			return nil, ErrMentorChangeForbidden
		}
	}

	if input.Role != nil && !models.ValidRole(*input.Role) {
		return nil, ErrInvalidRole
	}
	if input.Stage != nil && !models.ValidStage(*input.Stage) {
		return nil, ErrInvalidStage
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		user.Name = normalizeName(input.Name)
	}
	if input.Stage != nil {
		user.CurrentStage = *input.Stage
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.ClearMentor {
		user.MentorID = nil
	} else if input.MentorID != nil {
		if err := s.ensureMentorExists(*input.MentorID); err != nil {
			return nil, err
		}
		user.MentorID = input.MentorID
	}
	if input.Password != nil {
		password := strings.TrimSpace(*input.Password)
		if password == "" {
			return nil, ErrPasswordRequired
		}
		// Fresh salt on every reset.
		hash, salt, err := utils.HashPassword(password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		user.PasswordHash = hash
		user.PasswordSalt = salt
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// List returns users with pagination metadata.
func (s *UserService) List(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Delete removes a user; their completion records go with them.
func (s *UserService) Delete(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (s *UserService) ensureMentorExists(mentorID uint64) error {
	if _, err := s.contactRepo.FindByID(mentorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMentorNotFound
		}
		return fmt.Errorf("failed to verify mentor: %w", err)
	}
	return nil
}

// normalizeName trims a display name; blank names are stored as NULL.
func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
