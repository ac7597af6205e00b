package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/models"
)

// CompletedSetsForExercise returns all completed sets for one exercise and
// user, owned by completed sessions, heaviest first. A non-zero cutoff
// restricts to sessions starting at or after it. This is the input feed for
// the 1RM, volume, and standards computations.
func (db *DB) CompletedSetsForExercise(ctx context.Context, userID int, exerciseID uuid.UUID, cutoff time.Time) ([]models.LoggedSet, error) {
	query := `
		SELECT ss.id, ws.id, se.exercise_id, ss.set_number, ss.weight, ss.reps, ss.rpe, ss.completed, ws.start_time
		FROM session_sets ss
		JOIN session_exercises se ON se.id = ss.session_exercise_id
		JOIN workout_sessions ws ON ws.id = se.session_id
		WHERE se.exercise_id = $1
		  AND ws.user_id = $2
		  AND ws.completed
		  AND ss.completed`
	args := []any{exerciseID, userID}
	if !cutoff.IsZero() {
		query += ` AND ws.start_time >= $3`
		args = append(args, cutoff)
	}
	query += ` ORDER BY ss.weight DESC, ws.start_time`

	return db.querySets(ctx, query, args...)
}

// CompletedSets returns completed sets across all of a user's exercises,
// oldest session first, optionally restricted to a window. This is the
// input feed for personal-record tracking.
func (db *DB) CompletedSets(ctx context.Context, userID int, cutoff time.Time) ([]models.LoggedSet, error) {
	query := `
		SELECT ss.id, ws.id, se.exercise_id, ss.set_number, ss.weight, ss.reps, ss.rpe, ss.completed, ws.start_time
		FROM session_sets ss
		JOIN session_exercises se ON se.id = ss.session_exercise_id
		JOIN workout_sessions ws ON ws.id = se.session_id
		WHERE ws.user_id = $1
		  AND ws.completed
		  AND ss.completed`
	args := []any{userID}
	if !cutoff.IsZero() {
		query += ` AND ws.start_time >= $2`
		args = append(args, cutoff)
	}
	query += ` ORDER BY ws.start_time, ss.set_number`

	return db.querySets(ctx, query, args...)
}

func (db *DB) querySets(ctx context.Context, query string, args ...any) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []models.LoggedSet
	for rows.Next() {
		var s models.LoggedSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.SetNumber,
			&s.Weight, &s.Reps, &s.RPE, &s.Completed, &s.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// PreviousSession is the completed sets of one past session for one
// exercise, used to auto-populate the live logger.
type PreviousSession struct {
	Date time.Time          `json:"date"`
	Sets []models.LoggedSet `json:"sets"`
}

// PreviousSessionValues returns the last N completed sessions in which the
// user logged the exercise, newest first, sets ordered by set number.
func (db *DB) PreviousSessionValues(ctx context.Context, userID int, exerciseID uuid.UUID, limit int) ([]PreviousSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT ss.id, ws.id, se.exercise_id, ss.set_number, ss.weight, ss.reps, ss.rpe, ss.completed, ws.start_time
		FROM session_sets ss
		JOIN session_exercises se ON se.id = ss.session_exercise_id
		JOIN workout_sessions ws ON ws.id = se.session_id
		WHERE se.exercise_id = $1
		  AND ws.user_id = $2
		  AND ws.completed
		  AND ss.completed
		  AND ws.start_time >= COALESCE((
		      SELECT MIN(start_time) FROM (
		          SELECT DISTINCT ws2.start_time
		          FROM session_sets ss2
		          JOIN session_exercises se2 ON se2.id = ss2.session_exercise_id
		          JOIN workout_sessions ws2 ON ws2.id = se2.session_id
		          WHERE se2.exercise_id = $1 AND ws2.user_id = $2 AND ws2.completed AND ss2.completed
		          ORDER BY ws2.start_time DESC
		          LIMIT $3
		      ) recent), 'epoch')
		ORDER BY ws.start_time DESC, ss.set_number`,
		exerciseID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying previous sessions: %w", err)
	}
	defer rows.Close()

	var result []PreviousSession
	for rows.Next() {
		var s models.LoggedSet
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExerciseID, &s.SetNumber,
			&s.Weight, &s.Reps, &s.RPE, &s.Completed, &s.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning previous set: %w", err)
		}
		if len(result) == 0 || !result[len(result)-1].Date.Equal(s.OccurredAt) {
			result = append(result, PreviousSession{Date: s.OccurredAt})
		}
		last := &result[len(result)-1]
		last.Sets = append(last.Sets, s)
	}
	return result, rows.Err()
}

// ImportedSetRow is one historical set from an external export, inserted
// through the bulk-import endpoint.
type ImportedSetRow struct {
	UserID      int       `json:"-"`
	ExerciseID  uuid.UUID `json:"exercise_id"`
	SessionDate time.Time `json:"session_date"`
	SetNumber   int       `json:"set_number"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	RPE         *float64  `json:"rpe,omitempty"`
}

// InsertImportedSets inserts historical sets in one batch. Each distinct
// (user, session date) pair maps to a synthetic completed session under the
// reserved import template; duplicate (session, exercise, set number) rows
// are skipped. Returns the count inserted.
func (db *DB) InsertImportedSets(ctx context.Context, rows []ImportedSetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Synthetic sessions for imported history, one per calendar date, all
	// hanging off a reserved per-user template.
	templateIDs := make(map[int]uuid.UUID)
	sessionIDs := make(map[string]uuid.UUID)
	exerciseIDs := make(map[string]uuid.UUID) // session key + exercise id
	var inserted int64

	for _, r := range rows {
		tmplID, ok := templateIDs[r.UserID]
		if !ok {
			err := tx.QueryRow(ctx, `
				INSERT INTO workout_templates (user_id, name, day_number)
				VALUES ($1, 'Imported History', 0)
				ON CONFLICT (user_id, name) DO UPDATE SET updated_at = NOW()
				RETURNING id`,
				r.UserID,
			).Scan(&tmplID)
			if err != nil {
				return inserted, fmt.Errorf("resolving import template: %w", err)
			}
			templateIDs[r.UserID] = tmplID
		}

		dayKey := fmt.Sprintf("%d|%s", r.UserID, r.SessionDate.UTC().Format("2006-01-02"))
		sessID, ok := sessionIDs[dayKey]
		if !ok {
			err := tx.QueryRow(ctx, `
				INSERT INTO workout_sessions (user_id, template_id, start_time, end_time, completed)
				VALUES ($1, $2, $3, $3, TRUE)
				ON CONFLICT (user_id, start_time) DO UPDATE SET completed = TRUE
				RETURNING id`,
				r.UserID, tmplID, r.SessionDate,
			).Scan(&sessID)
			if err != nil {
				return inserted, fmt.Errorf("creating import session: %w", err)
			}
			sessionIDs[dayKey] = sessID
		}

		exKey := dayKey + "|" + r.ExerciseID.String()
		seID, ok := exerciseIDs[exKey]
		if !ok {
			err := tx.QueryRow(ctx, `
				INSERT INTO session_exercises (session_id, exercise_id, order_index)
				VALUES ($1, $2, (SELECT COUNT(*) FROM session_exercises WHERE session_id = $1))
				ON CONFLICT (session_id, exercise_id) DO UPDATE SET order_index = session_exercises.order_index
				RETURNING id`,
				sessID, r.ExerciseID,
			).Scan(&seID)
			if err != nil {
				return inserted, fmt.Errorf("creating import session exercise: %w", err)
			}
			exerciseIDs[exKey] = seID
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO session_sets (session_exercise_id, set_number, weight, reps, rpe, completed)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (session_exercise_id, set_number) DO NOTHING`,
			seID, r.SetNumber, r.Weight, r.Reps, r.RPE)
		if err != nil {
			return inserted, fmt.Errorf("inserting imported set: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return inserted, fmt.Errorf("committing import: %w", err)
	}
	return inserted, nil
}

// ExerciseIDsIn collects the distinct exercise ids present in a set slice.
func ExerciseIDsIn(sets []models.LoggedSet) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, s := range sets {
		if _, ok := seen[s.ExerciseID]; !ok {
			seen[s.ExerciseID] = struct{}{}
			ids = append(ids, s.ExerciseID)
		}
	}
	return ids
}
