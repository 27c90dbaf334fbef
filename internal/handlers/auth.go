package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/onboarding-portal/api/internal/constants"
	"github.com/onboarding-portal/api/internal/dto"
	apierrors "github.com/onboarding-portal/api/internal/errors"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/sirupsen/logrus"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Enter authenticates a user and initializes the session.
func (h *AuthHandler) Enter(c *gin.Context) {
	type EnterRequest struct {
		Login    string `json:"login" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req EnterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "login and password are required")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidLogin):
			apierrors.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			apierrors.InvalidCredentials(c)
		default:
			logrus.WithError(err).Error("login failed")
			apierrors.InternalError(c)
		}
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		logrus.WithError(err).Error("failed to save session")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Exit removes the authentication session.
func (h *AuthHandler) Exit(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logrus.WithError(err).Error("failed to clear session")
		apierrors.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
