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
	ErrTaskNotFound          = errors.New("task not found")
	ErrTitleRequired         = errors.New("title is required")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidPriority       = errors.New("invalid priority")
	ErrInvalidAssignmentType = errors.New("invalid assignment type")
	ErrNegativeTimeEstimate  = errors.New("time estimate must be non-negative")
)

// TaskService handles checklist task business logic.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	Stage    *models.Stage
	Category *models.TaskCategory
}

// List returns tasks matching the filters, ordered by priority then ID.
func (s *TaskService) List(input ListTasksInput) ([]models.Task, error) {
	if input.Stage != nil && !models.ValidStage(*input.Stage) {
		return nil, ErrInvalidStage
	}
	if input.Category != nil && !models.ValidCategory(*input.Category) {
		return nil, ErrInvalidCategory
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{
		Stage:    input.Stage,
		Category: input.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title          string
	Description    *string
	Category       *models.TaskCategory
	Priority       *models.TaskPriority
	TimeEstimate   *int
	Stage          *models.Stage
	AssignmentType *models.AssignmentType
}

// Create validates and creates a task.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if err := validateTaskEnums(input.Category, input.Priority, input.Stage, input.TimeEstimate); err != nil {
		return nil, err
	}

	stage := models.StageOne
	if input.Stage != nil {
		stage = *input.Stage
	}

	assignment := models.AssignmentSelf
	if input.AssignmentType != nil {
		if !models.ValidAssignmentType(*input.AssignmentType) {
			return nil, ErrInvalidAssignmentType
		}
		assignment = *input.AssignmentType
	}

	task := &models.Task{
		Title:          title,
		Description:    normalizeName(input.Description),
		Category:       input.Category,
		Priority:       input.Priority,
		TimeEstimate:   input.TimeEstimate,
		Stage:          stage,
		AssignmentType: assignment,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// untouched; the Clear flags null out optional columns.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Category          *models.TaskCategory
	ClearCategory     bool
	Priority          *models.TaskPriority
	ClearPriority     bool
	TimeEstimate      *int
	ClearTimeEstimate bool
	Stage             *models.Stage
	AssignmentType    *models.AssignmentType
}

// Update applies a partial update to a task.
func (s *TaskService) Update(id uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := validateTaskEnums(input.Category, input.Priority, input.Stage, input.TimeEstimate); err != nil {
		return nil, err
	}
	if input.AssignmentType != nil && !models.ValidAssignmentType(*input.AssignmentType) {
		return nil, ErrInvalidAssignmentType
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = normalizeName(input.Description)
	}
	if input.ClearCategory {
		task.Category = nil
	} else if input.Category != nil {
		task.Category = input.Category
	}
	if input.ClearPriority {
		task.Priority = nil
	} else if input.Priority != nil {
		task.Priority = input.Priority
	}
	if input.ClearTimeEstimate {
		task.TimeEstimate = nil
	} else if input.TimeEstimate != nil {
		task.TimeEstimate = input.TimeEstimate
	}
	if input.Stage != nil {
		task.Stage = *input.Stage
	}
	if input.AssignmentType != nil {
		task.AssignmentType = *input.AssignmentType
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task; completion records referencing it go with it.
func (s *TaskService) Delete(id uint64) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func validateTaskEnums(category *models.TaskCategory, priority *models.TaskPriority, stage *models.Stage, timeEstimate *int) error {
	if category != nil && !models.ValidCategory(*category) {
		return ErrInvalidCategory
	}
	if priority != nil && !models.ValidPriority(*priority) {
		return ErrInvalidPriority
	}
	if stage != nil && !models.ValidStage(*stage) {
		return ErrInvalidStage
	}
	if timeEstimate != nil && *timeEstimate < 0 {
		return ErrNegativeTimeEstimate
	}
	return nil
}
