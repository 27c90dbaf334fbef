package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/dto"
	apierrors "github.com/onboarding-portal/api/internal/errors"
	"github.com/onboarding-portal/api/internal/middleware"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/sirupsen/logrus"
)

// ProgressHandler coordinates progress-tracking HTTP handlers.
type ProgressHandler struct {
	progressService *services.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

// GetProgress returns the completion map for a user, keyed by task ID.
// Tasks with no record are absent and read as not completed.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	records, err := h.progressService.GetProgress(userID)
	if err != nil {
		logrus.WithError(err).Error("failed to load progress")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToProgressMap(records))
}

// GetStats returns aggregated completion statistics for a user.
func (h *ProgressHandler) GetStats(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	stats, err := h.progressService.GetStats(userID)
	if err != nil {
		logrus.WithError(err).Error("failed to aggregate stats")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

// ToggleCompletion flips a task's completion state for a user and
// reports any stage advancement the toggle triggered.
func (h *ProgressHandler) ToggleCompletion(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type ToggleRequest struct {
		UserID    uint64 `json:"user_id" binding:"required"`
		TaskID    uint64 `json:"task_id" binding:"required"`
		Completed *bool  `json:"completed" binding:"required"`
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "user_id, task_id and completed are required")
		return
	}

	result, err := h.progressService.Toggle(actor, services.ToggleInput{
		UserID:    req.UserID,
		TaskID:    req.TaskID,
		Completed: *req.Completed,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotOwnProgress):
			apierrors.Forbidden(c, err.Error())
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrTaskNotFound):
			apierrors.NotFound(c, err.Error())
		default:
			logrus.WithError(err).Error("failed to toggle completion")
			apierrors.InternalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToToggleResponse(result))
}
