package dto

import (
	"time"

	"github.com/onboarding-portal/api/internal/models"
)

// assignmentLabels carries the display labels the checklist client
// renders next to tasks that need another person involved.
var assignmentLabels = map[models.AssignmentType]string{
	models.AssignmentMentor:     "С наставником",
	models.AssignmentSupervisor: "С руководителем",
}

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID             uint64                `json:"id"`
	Title          string                `json:"title"`
	Description    *string               `json:"description"`
	Category       *models.TaskCategory  `json:"category"`
	Priority       *models.TaskPriority  `json:"priority"`
	TimeEstimate   *int                  `json:"time_estimate"`
	Stage          models.Stage          `json:"stage"`
	AssignmentType models.AssignmentType `json:"assignment_type"`
	// Display label for mentor/supervisor assignment modes, null for
	// self-driven tasks.
	AssignmentLabel *string    `json:"assignment_label"`
	MentorID        *uint64    `json:"mentor_id"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Category:       task.Category,
		Priority:       task.Priority,
		TimeEstimate:   task.TimeEstimate,
		Stage:          task.Stage,
		AssignmentType: task.AssignmentType,
		MentorID:       task.MentorID,
		CreatedAt:      task.CreatedAt,
	}

	if label, ok := assignmentLabels[task.AssignmentType]; ok {
		dto.AssignmentLabel = &label
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
