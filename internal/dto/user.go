package dto

import (
	"time"

	"github.com/onboarding-portal/api/internal/models"
)

// UserDTO represents a user in API responses. Credential material is
// never included.
type UserDTO struct {
	ID           uint64          `json:"id"`
	Login        string          `json:"login"`
	Name         *string         `json:"name"`
	Role         models.UserRole `json:"role"`
	CurrentStage models.Stage    `json:"current_stage"`
	MentorID     *uint64         `json:"mentor_id"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Login:        user.Login,
		Name:         user.Name,
		Role:         user.Role,
		CurrentStage: user.CurrentStage,
		MentorID:     user.MentorID,
		CreatedAt:    user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users.
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}
