package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound       = errors.New("contact not found")
	ErrContactFieldsRequired = errors.New("name, role, responsibility and area are required")
)

// ContactService handles directory business logic.
type ContactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
	}
}

// List returns contacts, optionally filtered by area.
func (s *ContactService) List(area string) ([]models.Contact, error) {
	contacts, err := s.contactRepo.List(strings.TrimSpace(area))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// Get returns a contact by ID.
func (s *ContactService) Get(id uint64) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	return contact, nil
}

// CreateContactInput represents input for creating a contact.
type CreateContactInput struct {
	Name           string
	Role           string
	Responsibility string
	Area           string
	WorkingHours   *string
	Telegram       *string
	Email          *string
}

// Create validates and creates a contact.
func (s *ContactService) Create(input CreateContactInput) (*models.Contact, error) {
	name := strings.TrimSpace(input.Name)
	role := strings.TrimSpace(input.Role)
	responsibility := strings.TrimSpace(input.Responsibility)
	area := strings.TrimSpace(input.Area)
	if name == "" || role == "" || responsibility == "" || area == "" {
		return nil, ErrContactFieldsRequired
	}

	contact := &models.Contact{
		Name:           name,
		Role:           role,
		Responsibility: responsibility,
		Area:           area,
		WorkingHours:   normalizeName(input.WorkingHours),
		Telegram:       normalizeName(input.Telegram),
		Email:          normalizeName(input.Email),
	}

	if err := s.contactRepo.Create(contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

// UpdateContactInput represents a partial contact update. Blank values
// for required fields keep the stored value; optional fields are
// cleared when set to an empty string.
type UpdateContactInput struct {
	Name           *string
	Role           *string
	Responsibility *string
	Area           *string
	WorkingHours   *string
	Telegram       *string
	Email          *string
}

// Update applies a partial update to a contact.
func (s *ContactService) Update(id uint64, input UpdateContactInput) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			contact.Name = name
		}
	}
	if input.Role != nil {
		if role := strings.TrimSpace(*input.Role); role != "" {
			contact.Role = role
		}
	}
	if input.Responsibility != nil {
		if responsibility := strings.TrimSpace(*input.Responsibility); responsibility != "" {
			contact.Responsibility = responsibility
		}
	}
	if input.Area != nil {
		if area := strings.TrimSpace(*input.Area); area != "" {
			contact.Area = area
		}
	}
	if input.WorkingHours != nil {
		contact.WorkingHours = normalizeName(input.WorkingHours)
	}
	if input.Telegram != nil {
		contact.Telegram = normalizeName(input.Telegram)
	}
	if input.Email != nil {
		contact.Email = normalizeName(input.Email)
	}

	if err := s.contactRepo.Update(contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

// Delete removes a contact. Mentor references on users and tasks are
// cleared, never blocked on.
func (s *ContactService) Delete(id uint64) error {
	if _, err := s.contactRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("failed to find contact: %w", err)
	}

	if err := s.contactRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil
}
