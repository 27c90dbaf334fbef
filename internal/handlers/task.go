package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/dto"
	apierrors "github.com/onboarding-portal/api/internal/errors"
	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/sirupsen/logrus"
)

// TaskHandler coordinates checklist task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns tasks, optionally filtered by stage and category.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var input services.ListTasksInput

	if stage := c.Query("stage"); stage != "" {
		s := models.Stage(stage)
		input.Stage = &s
	}
	if category := c.Query("category"); category != "" {
		cat := models.TaskCategory(category)
		input.Category = &cat
	}

	tasks, err := h.taskService.List(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(id)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task. Admin only.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title          string                 `json:"title" binding:"required"`
		Description    *string                `json:"description"`
		Category       *models.TaskCategory   `json:"category"`
		Priority       *models.TaskPriority   `json:"priority"`
		TimeEstimate   *int                   `json:"time_estimate"`
		Stage          *models.Stage          `json:"stage"`
		AssignmentType *models.AssignmentType `json:"assignment_type"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "title is required")
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Priority:       req.Priority,
		TimeEstimate:   req.TimeEstimate,
		Stage:          req.Stage,
		AssignmentType: req.AssignmentType,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task. Admin only.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title          *string                `json:"title"`
		Description    *string                `json:"description"`
		Category       optionalString         `json:"category"`
		Priority       optionalString         `json:"priority"`
		TimeEstimate   optionalUint64         `json:"time_estimate"`
		Stage          *models.Stage          `json:"stage"`
		AssignmentType *models.AssignmentType `json:"assignment_type"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Stage:          req.Stage,
		AssignmentType: req.AssignmentType,
	}
	if req.Category.Present {
		if req.Category.Value == nil {
			input.ClearCategory = true
		} else {
			category := models.TaskCategory(*req.Category.Value)
			input.Category = &category
		}
	}
	if req.Priority.Present {
		if req.Priority.Value == nil {
			input.ClearPriority = true
		} else {
			priority := models.TaskPriority(*req.Priority.Value)
			input.Priority = &priority
		}
	}
	if req.TimeEstimate.Present {
		if req.TimeEstimate.Value == nil {
			input.ClearTimeEstimate = true
		} else {
			estimate := int(*req.TimeEstimate.Value)
			input.TimeEstimate = &estimate
		}
	}

	task, err := h.taskService.Update(id, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Admin only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidStage),
		errors.Is(err, services.ErrInvalidAssignmentType),
		errors.Is(err, services.ErrNegativeTimeEstimate):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		logrus.WithError(err).Error("task operation failed")
		apierrors.InternalError(c)
	}
}
