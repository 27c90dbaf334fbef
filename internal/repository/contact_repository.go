package repository

import (
	"github.com/onboarding-portal/api/internal/models"
	"gorm.io/gorm"
)

// GormContactRepository is a GORM implementation of ContactRepository
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

// Create creates a new contact
func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Create(contact).Error
}

// FindByID finds a contact by ID
func (r *GormContactRepository) FindByID(id uint64) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// List retrieves contacts ordered by area then name
func (r *GormContactRepository) List(area string) ([]models.Contact, error) {
	query := r.db.Model(&models.Contact{})
	if area != "" {
		query = query.Where("area = ?", area)
	}

	var contacts []models.Contact
	if err := query.Order("area, name").Find(&contacts).Error; err != nil {
		return nil, err
	}

	return contacts, nil
}

// Update persists changes to a contact
func (r *GormContactRepository) Update(contact *models.Contact) error {
	return r.db.Save(contact).Error
}

// Delete clears every mentor reference pointing at the contact, then
// removes it, all in one transaction.
func (r *GormContactRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("mentor_id = ?", id).
			Update("mentor_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("mentor_id = ?", id).
			Update("mentor_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Contact{}, id).Error
	})
}
