package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalExercises  int64             `json:"total_exercises"`
	TotalTemplates  int64             `json:"total_templates"`
	TotalSessions   int64             `json:"total_sessions"`
	CompletedSets   int64             `json:"completed_sets"`
	EarliestSession *time.Time        `json:"earliest_session"`
	LatestSession   *time.Time        `json:"latest_session"`
	SetsByMuscle    []MuscleGroupStat `json:"sets_by_muscle_group"`
}

// MuscleGroupStat holds completed-set counts and tonnage for one muscle
// group.
type MuscleGroupStat struct {
	MuscleGroup string  `json:"muscle_group"`
	Sets        int64   `json:"sets"`
	TonnageKg   float64 `json:"tonnage_kg"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exercises WHERE user_id IS NULL OR user_id = $1`, userID,
	).Scan(&stats.TotalExercises)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_templates WHERE user_id = $1`, userID,
	).Scan(&stats.TotalTemplates)
	if err != nil {
		return nil, fmt.Errorf("counting templates: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*), MIN(start_time), MAX(start_time)
		 FROM workout_sessions WHERE user_id = $1 AND completed`, userID,
	).Scan(&stats.TotalSessions, &stats.EarliestSession, &stats.LatestSession)
	if err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM session_sets ss
		 JOIN session_exercises se ON se.id = ss.session_exercise_id
		 JOIN workout_sessions ws ON ws.id = se.session_id
		 WHERE ws.user_id = $1 AND ws.completed AND ss.completed`, userID,
	).Scan(&stats.CompletedSets)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT e.muscle_group, COUNT(*), COALESCE(SUM(ss.weight * ss.reps), 0)
		 FROM session_sets ss
		 JOIN session_exercises se ON se.id = ss.session_exercise_id
		 JOIN workout_sessions ws ON ws.id = se.session_id
		 JOIN exercises e ON e.id = se.exercise_id
		 WHERE ws.user_id = $1 AND ws.completed AND ss.completed
		 GROUP BY e.muscle_group
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sets by muscle group: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s MuscleGroupStat
		if err := rows.Scan(&s.MuscleGroup, &s.Sets, &s.TonnageKg); err != nil {
			return nil, fmt.Errorf("scanning muscle group stat: %w", err)
		}
		stats.SetsByMuscle = append(stats.SetsByMuscle, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
