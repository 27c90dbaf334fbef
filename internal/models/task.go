package models

import "time"

type TaskCategory string

const (
	CategoryAccess    TaskCategory = "access"
	CategorySecurity  TaskCategory = "security"
	CategoryProcesses TaskCategory = "processes"
	CategoryTraining  TaskCategory = "training"
	CategoryPractice  TaskCategory = "practice"
	CategorySystems   TaskCategory = "systems"
)

// ValidCategory reports whether c is a known category value.
func ValidCategory(c TaskCategory) bool {
	switch c {
	case CategoryAccess, CategorySecurity, CategoryProcesses,
		CategoryTraining, CategoryPractice, CategorySystems:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityMust   TaskPriority = "must"
	PriorityShould TaskPriority = "should"
	PriorityNice   TaskPriority = "nice"
)

// ValidPriority reports whether p is a known priority value.
func ValidPriority(p TaskPriority) bool {
	return p == PriorityMust || p == PriorityShould || p == PriorityNice
}

type AssignmentType string

const (
	AssignmentSelf       AssignmentType = "self"
	AssignmentMentor     AssignmentType = "mentor"
	AssignmentSupervisor AssignmentType = "supervisor"
)

// ValidAssignmentType reports whether a is a known assignment mode.
func ValidAssignmentType(a AssignmentType) bool {
	return a == AssignmentSelf || a == AssignmentMentor || a == AssignmentSupervisor
}

type Task struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	Category    *TaskCategory `gorm:"type:varchar(20)" json:"category"`
	Priority    *TaskPriority `gorm:"type:varchar(10)" json:"priority"`
	// Estimated duration in minutes.
	TimeEstimate   *int           `json:"time_estimate"`
	Stage          Stage          `gorm:"type:varchar(20);not null;default:'stage1'" json:"stage"`
	AssignmentType AssignmentType `gorm:"type:varchar(20);not null;default:'self'" json:"assignment_type"`
	// Legacy weak reference into contacts; cleared when the contact is deleted.
	MentorID  *uint64   `json:"mentor_id"`
	CreatedAt time.Time `json:"created_at"`
}
