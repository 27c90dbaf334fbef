package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/repository"
	"gorm.io/gorm"
)

var ErrNotOwnProgress = errors.New("can only change own progress")

// ProgressService computes completion statistics and handles the
// completion toggle together with server-side stage advancement.
type ProgressService struct {
	progressRepo repository.ProgressRepository
	userRepo     repository.UserRepository
	taskRepo     repository.TaskRepository
}

// NewProgressService creates a new ProgressService.
func NewProgressService(progressRepo repository.ProgressRepository, userRepo repository.UserRepository, taskRepo repository.TaskRepository) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		userRepo:     userRepo,
		taskRepo:     taskRepo,
	}
}

// GetProgress returns every completion record a user has. Unknown user
// IDs simply yield an empty result; existence checks belong to the
// user endpoints.
func (s *ProgressService) GetProgress(userID uint64) ([]models.CompletionRecord, error) {
	records, err := s.progressRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return records, nil
}

// ProgressStats summarizes a user's completion state.
type ProgressStats struct {
	Total      int64
	Completed  int64
	Percentage int
	ByCategory []repository.GroupStat
	ByStage    []repository.GroupStat
}

// GetStats aggregates completion counts for a user: the global task
// count, the user's completed count, the rounded percentage, and
// per-category / per-stage breakdowns in which every task counts even
// without a completion record.
func (s *ProgressService) GetStats(userID uint64) (*ProgressStats, error) {
	total, err := s.progressRepo.CountTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	completed, err := s.progressRepo.CountCompleted(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	byCategory, err := s.progressRepo.GroupByCategory(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}

	byStage, err := s.progressRepo.GroupByStage(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by stage: %w", err)
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}

	return &ProgressStats{
		Total:      total,
		Completed:  completed,
		Percentage: percentage,
		ByCategory: byCategory,
		ByStage:    byStage,
	}, nil
}

// ToggleInput represents a completion toggle request.
type ToggleInput struct {
	UserID    uint64
	TaskID    uint64
	Completed bool
}

// ToggleResult reports the outcome of a toggle, including any stage
// advancement it triggered.
type ToggleResult struct {
	Completed     bool
	StageAdvanced bool
	CurrentStage  models.Stage
}

// Toggle upserts the (user, task) completion record and, when the
// toggle completed the last open task of the user's active stage,
// advances the user to the next stage. The advancement is a
// conditional update keyed on the stage it advances from, so repeated
// evaluation never advances twice, and a failed write is simply
// retried on the next toggle.
func (s *ProgressService) Toggle(actor *models.User, input ToggleInput) (*ToggleResult, error) {
	if actor.ID != input.UserID && !actor.IsAdmin() {
		return nil, ErrNotOwnProgress
	}

	user, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.taskRepo.FindByID(input.TaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	record := &models.CompletionRecord{
		UserID:    input.UserID,
		TaskID:    input.TaskID,
		Completed: input.Completed,
	}
	if input.Completed {
		now := time.Now()
		record.CompletedAt = &now
	}

	if err := s.progressRepo.Upsert(record); err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	result := &ToggleResult{
		Completed:    input.Completed,
		CurrentStage: user.CurrentStage,
	}

	if input.Completed {
		advanced, next, err := s.evaluateAdvancement(user)
		if err != nil {
			return nil, err
		}
		if advanced {
			result.StageAdvanced = true
			result.CurrentStage = next
		}
	}

	return result, nil
}

// evaluateAdvancement promotes the user when no task of their active
// stage remains incomplete. stage3 is terminal.
func (s *ProgressService) evaluateAdvancement(user *models.User) (bool, models.Stage, error) {
	next, ok := user.CurrentStage.Next()
	if !ok {
		return false, user.CurrentStage, nil
	}

	// A stage with no tasks at all is never auto-completed.
	inStage, err := s.taskRepo.CountByStage(user.CurrentStage)
	if err != nil {
		return false, user.CurrentStage, fmt.Errorf("failed to count stage tasks: %w", err)
	}
	if inStage == 0 {
		return false, user.CurrentStage, nil
	}

	remaining, err := s.progressRepo.CountIncompleteInStage(user.ID, user.CurrentStage)
	if err != nil {
		return false, user.CurrentStage, fmt.Errorf("failed to check stage completion: %w", err)
	}
	if remaining > 0 {
		return false, user.CurrentStage, nil
	}

	advanced, err := s.userRepo.AdvanceStage(user.ID, user.CurrentStage, next)
	if err != nil {
		return false, user.CurrentStage, fmt.Errorf("failed to advance stage: %w", err)
	}

	return advanced, next, nil
}
