package models

import "time"

// Contact is a directory entry. Contacts may also serve as mentors for
// users and tasks via weak mentor_id references.
type Contact struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Role           string    `gorm:"type:varchar(255);not null" json:"role"`
	Responsibility string    `gorm:"type:text;not null" json:"responsibility"`
	Area           string    `gorm:"type:varchar(100);not null" json:"area"`
	WorkingHours   *string   `gorm:"type:varchar(100)" json:"working_hours"`
	Telegram       *string   `gorm:"type:varchar(100)" json:"telegram"`
	Email          *string   `gorm:"type:varchar(255)" json:"email"`
	CreatedAt      time.Time `json:"created_at"`
}
