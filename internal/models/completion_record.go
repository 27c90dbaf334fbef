package models

import "time"

// CompletionRecord marks that a user finished (or un-finished) a task.
// At most one record exists per (user, task); the absence of a record
// is equivalent to completed=false.
type CompletionRecord struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_completion_user_task" json:"user_id"`
	TaskID    uint64 `gorm:"not null;uniqueIndex:idx_completion_user_task" json:"task_id"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	// Set exactly when Completed flips to true, cleared when it flips back.
	CompletedAt *time.Time `json:"completed_at"`
}

func (CompletionRecord) TableName() string {
	return "completion_records"
}
