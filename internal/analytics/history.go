package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/models"
)

// SessionSummary is the per-session rollup shown in the history view.
type SessionSummary struct {
	SessionID       uuid.UUID `json:"session_id"`
	TemplateName    string    `json:"template_name,omitempty"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	TotalVolume     float64   `json:"total_volume"`
	TotalSets       int       `json:"total_sets"`
	ExerciseCount   int       `json:"exercise_count"`
}

// SummarizeSessions rolls up completed sessions into per-session totals.
// Total volume and set count cover completed sets only; the exercise count
// covers every exercise attempted in the session, including ones where no
// set was completed. Output is ordered most-recent-first by start time,
// stable on ties. Zero sessions yields an empty slice.
func SummarizeSessions(sessions []models.WorkoutSession, exercisesBySession map[uuid.UUID][]models.SessionExercise) []SessionSummary {
	summaries := make([]SessionSummary, 0, len(sessions))

	for _, sess := range sessions {
		sum := SessionSummary{
			SessionID:       sess.ID,
			TemplateName:    sess.TemplateName,
			StartTime:       sess.StartTime,
			DurationMinutes: sess.DurationMinutes,
		}

		exercises := exercisesBySession[sess.ID]
		sum.ExerciseCount = len(exercises)
		var volume float64
		for _, ex := range exercises {
			for _, set := range ex.Sets {
				if !set.Completed {
					continue
				}
				volume += set.Volume()
				sum.TotalSets++
			}
		}
		sum.TotalVolume = round2(volume)

		summaries = append(summaries, sum)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].StartTime.After(summaries[j].StartTime)
	})
	return summaries
}
