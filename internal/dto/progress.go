package dto

import (
	"time"

	"github.com/onboarding-portal/api/internal/models"
	"github.com/onboarding-portal/api/internal/repository"
	"github.com/onboarding-portal/api/internal/services"
)

// ProgressEntry is one task's completion state in the progress map.
type ProgressEntry struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ToProgressMap keys completion records by task ID. Tasks without a
// record are simply absent, which clients treat as not completed.
func ToProgressMap(records []models.CompletionRecord) map[uint64]ProgressEntry {
	progress := make(map[uint64]ProgressEntry, len(records))
	for _, record := range records {
		progress[record.TaskID] = ProgressEntry{
			Completed:   record.Completed,
			CompletedAt: record.CompletedAt,
		}
	}
	return progress
}

// StatsResponse is the aggregated progress payload.
type StatsResponse struct {
	Total      int64                  `json:"total"`
	Completed  int64                  `json:"completed"`
	Percentage int                    `json:"percentage"`
	ByCategory []repository.GroupStat `json:"by_category"`
	ByStage    []repository.GroupStat `json:"by_stage"`
}

// ToStatsResponse converts aggregated stats to the response payload.
func ToStatsResponse(stats *services.ProgressStats) StatsResponse {
	return StatsResponse{
		Total:      stats.Total,
		Completed:  stats.Completed,
		Percentage: stats.Percentage,
		ByCategory: stats.ByCategory,
		ByStage:    stats.ByStage,
	}
}

// ToggleResponse reports the outcome of a completion toggle.
type ToggleResponse struct {
	Completed     bool         `json:"completed"`
	StageAdvanced bool         `json:"stage_advanced"`
	CurrentStage  models.Stage `json:"current_stage"`
}

// ToToggleResponse converts a toggle result to the response payload.
func ToToggleResponse(result *services.ToggleResult) ToggleResponse {
	return ToggleResponse{
		Completed:     result.Completed,
		StageAdvanced: result.StageAdvanced,
		CurrentStage:  result.CurrentStage,
	}
}
