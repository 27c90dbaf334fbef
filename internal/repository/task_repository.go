package repository

import (
	"github.com/onboarding-portal/api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with optional stage and category filters,
// ordered by priority then ID.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{})

	if filter.Stage != nil {
		query = query.Where("stage = ?", *filter.Stage)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	var tasks []models.Task
	if err := query.Order("priority ASC, id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// CountByStage counts the tasks assigned to a stage
func (r *GormTaskRepository) CountByStage(stage models.Stage) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("stage = ?", stage).Count(&count).Error
	return count, err
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its completion records in a transaction
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.CompletionRecord{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
