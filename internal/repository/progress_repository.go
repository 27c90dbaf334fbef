package repository

import (
	"fmt"

	"github.com/onboarding-portal/api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProgressRepository is a GORM implementation of ProgressRepository
type GormProgressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &GormProgressRepository{db: db}
}

// Upsert inserts or updates the unique (user, task) completion record
func (r *GormProgressRepository) Upsert(record *models.CompletionRecord) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at"}),
		}).
		Create(record).Error
}

// Find returns the record for a (user, task) pair
func (r *GormProgressRepository) Find(userID, taskID uint64) (*models.CompletionRecord, error) {
	var record models.CompletionRecord
	if err := r.db.Where("user_id = ? AND task_id = ?", userID, taskID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser returns all records a user has
func (r *GormProgressRepository) ListByUser(userID uint64) ([]models.CompletionRecord, error) {
	var records []models.CompletionRecord
	if err := r.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountTasks returns the global task count
func (r *GormProgressRepository) CountTasks() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountCompleted returns how many tasks a user has completed
func (r *GormProgressRepository) CountCompleted(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.CompletionRecord{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error
	return count, err
}

// Tasks are LEFT JOINed against the user's completion records so every
// task counts toward its group total even without a record.
const groupStatsQuery = `
SELECT COALESCE(tasks.%[1]s, '') AS label,
       COUNT(*) AS total,
       COALESCE(SUM(CASE WHEN completion_records.completed THEN 1 ELSE 0 END), 0) AS completed
FROM tasks
LEFT JOIN completion_records
       ON completion_records.task_id = tasks.id
      AND completion_records.user_id = ?
GROUP BY tasks.%[1]s`

// GroupByCategory aggregates totals and per-user completions by category
func (r *GormProgressRepository) GroupByCategory(userID uint64) ([]GroupStat, error) {
	return r.groupBy("category", userID)
}

// GroupByStage aggregates totals and per-user completions by stage
func (r *GormProgressRepository) GroupByStage(userID uint64) ([]GroupStat, error) {
	return r.groupBy("stage", userID)
}

// column is one of the fixed names above, never request input.
func (r *GormProgressRepository) groupBy(column string, userID uint64) ([]GroupStat, error) {
	var stats []GroupStat
	query := fmt.Sprintf(groupStatsQuery, column)
	if err := r.db.Raw(query, userID).Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// CountIncompleteInStage counts tasks of a stage the user has not
// completed yet.
func (r *GormProgressRepository) CountIncompleteInStage(userID uint64, stage models.Stage) (int64, error) {
	var count int64
	err := r.db.Raw(`
SELECT COUNT(*)
FROM tasks
LEFT JOIN completion_records
       ON completion_records.task_id = tasks.id
      AND completion_records.user_id = ?
WHERE tasks.stage = ?
  AND (completion_records.id IS NULL OR completion_records.completed = ?)`,
		userID, stage, false).Scan(&count).Error
	return count, err
}
