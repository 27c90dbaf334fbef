package repository

import (
	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByLogin finds a user by login
	FindByLogin(login string) (*models.User, error)

	// List retrieves users ordered by ID with pagination
	List(params utils.PaginationParams) ([]models.User, int64, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user and their completion records
	Delete(id uint64) error

	// AdvanceStage moves a user from one stage to the next. The update
	// is conditional on the stored stage still matching from, so
	// repeated evaluation cannot advance twice.
	AdvanceStage(userID uint64, from, to models.Stage) (bool, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Stage    *models.Stage
	Category *models.TaskCategory
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks ordered by priority then ID
	List(filter TaskFilter) ([]models.Task, error)

	// CountByStage counts the tasks assigned to a stage
	CountByStage(stage models.Stage) (int64, error)

	Update(task *models.Task) error

	// Delete removes a task and its completion records
	Delete(id uint64) error
}

// ContactRepository defines the interface for contact directory access
type ContactRepository interface {
	Create(contact *models.Contact) error
	FindByID(id uint64) (*models.Contact, error)

	// List retrieves contacts, optionally filtered by area, ordered by
	// area then name
	List(area string) ([]models.Contact, error)

	Update(contact *models.Contact) error

	// Delete removes a contact after clearing every mentor reference
	// pointing at it
	Delete(id uint64) error
}

// GroupStat is one (label, total, completed) aggregation row.
type GroupStat struct {
	Label     string `json:"label"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

// ProgressRepository defines the interface for completion-record access
// and progress aggregation.
type ProgressRepository interface {
	// Upsert inserts or updates the unique (user, task) record
	Upsert(record *models.CompletionRecord) error

	// Find returns the record for a (user, task) pair
	Find(userID, taskID uint64) (*models.CompletionRecord, error)

	// ListByUser returns all records a user has
	ListByUser(userID uint64) ([]models.CompletionRecord, error)

	// CountTasks returns the global task count
	CountTasks() (int64, error)

	// CountCompleted returns how many tasks a user has completed
	CountCompleted(userID uint64) (int64, error)

	// GroupByCategory aggregates totals and per-user completions for
	// every category present in the task table
	GroupByCategory(userID uint64) ([]GroupStat, error)

	// GroupByStage aggregates totals and per-user completions for
	// every stage present in the task table
	GroupByStage(userID uint64) ([]GroupStat, error)

	// CountIncompleteInStage counts tasks of a stage the user has not
	// completed yet
	CountIncompleteInStage(userID uint64, stage models.Stage) (int64, error)
}
