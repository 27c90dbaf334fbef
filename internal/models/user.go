package models

import "time"

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// ValidRole reports whether r is a known role value.
func ValidRole(r UserRole) bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID           uint64   `gorm:"primarykey" json:"id"`
	Login        string   `gorm:"type:varchar(20);uniqueIndex;not null" json:"login"`
	Name         *string  `gorm:"type:varchar(255)" json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	CurrentStage Stage    `gorm:"type:varchar(20);not null;default:'stage1'" json:"current_stage"`
	// Weak reference into contacts; cleared when the contact is deleted.
	MentorID     *uint64   `json:"mentor_id"`
	PasswordHash string    `gorm:"type:varchar(255)" json:"-"`
	PasswordSalt string    `gorm:"type:varchar(64)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
