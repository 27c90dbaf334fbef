package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/onboarding-portal/api/internal/errors"
	"github.com/onboarding-portal/api/internal/services"
	"github.com/sirupsen/logrus"
)

// ContactHandler coordinates directory HTTP handlers.
type ContactHandler struct {
	contactService *services.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *services.ContactService) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
	}
}

// ListContacts returns directory entries, optionally filtered by area.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	contacts, err := h.contactService.List(c.Query("area"))
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// GetContact returns a single contact by ID.
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.Get(id)
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// CreateContact creates a directory entry. Admin only.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	type CreateContactRequest struct {
		Name           string  `json:"name" binding:"required"`
		Role           string  `json:"role" binding:"required"`
		Responsibility string  `json:"responsibility" binding:"required"`
		Area           string  `json:"area" binding:"required"`
		WorkingHours   *string `json:"working_hours"`
		Telegram       *string `json:"telegram"`
		Email          *string `json:"email"`
	}

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "name, role, responsibility and area are required")
		return
	}

	contact, err := h.contactService.Create(services.CreateContactInput{
		Name:           req.Name,
		Role:           req.Role,
		Responsibility: req.Responsibility,
		Area:           req.Area,
		WorkingHours:   req.WorkingHours,
		Telegram:       req.Telegram,
		Email:          req.Email,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// UpdateContact applies a partial update to a contact. Admin only.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateContactRequest struct {
		Name           *string `json:"name"`
		Role           *string `json:"role"`
		Responsibility *string `json:"responsibility"`
		Area           *string `json:"area"`
		WorkingHours   *string `json:"working_hours"`
		Telegram       *string `json:"telegram"`
		Email          *string `json:"email"`
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	contact, err := h.contactService.Update(id, services.UpdateContactInput{
		Name:           req.Name,
		Role:           req.Role,
		Responsibility: req.Responsibility,
		Area:           req.Area,
		WorkingHours:   req.WorkingHours,
		Telegram:       req.Telegram,
		Email:          req.Email,
	})
	if err != nil {
		respondContactError(c, err)
		return
	}

	c.JSON(http.StatusOK, contact)
}

// DeleteContact removes a contact, clearing mentor references to it.
// Admin only.
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(id); err != nil {
		respondContactError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContactFieldsRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrContactNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		logrus.WithError(err).Error("contact operation failed")
		apierrors.InternalError(c)
	}
}
