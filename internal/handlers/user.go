package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/dto"
	apierrors "github.com/onboarding-portal/api/internal/errors"
	"github.com/onboarding-portal/api/internal/middleware"
	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/onboarding-portal/api/internal/utils"
	"github.com/sirupsen/logrus"
)

// UserHandler coordinates user management HTTP handlers.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
	}
}

// ListUsers returns all users with pagination. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.userService.List(params)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserDTOs(users),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// CreateUser creates a user. Admin only.
func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Login    string           `json:"login" binding:"required"`
		Name     *string          `json:"name"`
		Password string           `json:"password" binding:"required"`
		Role     *models.UserRole `json:"role"`
		Stage    *models.Stage    `json:"stage"`
		MentorID *uint64          `json:"mentor_id"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "login and password are required")
		return
	}

	user, err := h.userService.Create(services.CreateUserInput{
		Login:    req.Login,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Stage:    req.Stage,
		MentorID: req.MentorID,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// GetUser returns a user by ID, credential fields stripped.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.authService.GetUser(id)
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser applies a partial update. A user may rename themselves;
// role, stage, password and mentor changes are admin only.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name     *string          `json:"name"`
		Stage    *models.Stage    `json:"stage"`
		Role     *models.UserRole `json:"role"`
		Password *string          `json:"password"`
		// Distinguishes "mentor_id": null (clear) from the field being
		// absent.
		MentorID optionalUint64 `json:"mentor_id"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Update(actor, id, services.UpdateUserInput{
		Name:        req.Name,
		Stage:       req.Stage,
		Role:        req.Role,
		Password:    req.Password,
		MentorID:    req.MentorID.Value,
		ClearMentor: req.MentorID.Present && req.MentorID.Value == nil,
	})
	if err != nil {
		respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user. Admin only.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondUserError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidLogin),
		errors.Is(err, services.ErrPasswordRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidStage),
		errors.Is(err, services.ErrMentorNotFound):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrLoginTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOwnProfile),
		errors.Is(err, services.ErrRoleChangeForbidden),
		errors.Is(err, services.ErrStageChangeForbidden),
		errors.Is(err, services.ErrPasswordSetForbidden),
		errors.Is(err, services.ErrMentorChangeForbidden):
		apierrors.Forbidden(c, err.Error())
	default:
		logrus.WithError(err).Error("user operation failed")
		apierrors.InternalError(c)
	}
}

// parseIDParam parses a numeric path parameter, responding 400 itself
// on malformed input.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
