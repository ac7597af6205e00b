package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/gymlog/internal/models"
)

// ErrSessionInProgress is returned when starting a session while another is
// still open.
var ErrSessionInProgress = errors.New("a session is already in progress")

// StartSession creates a workout session from a template: the session row,
// one session_exercise per template slot, and placeholder sets numbered
// 1..sets with zero weight/reps and completed=false.
func (db *DB) StartSession(ctx context.Context, userID int, templateID uuid.UUID) (*models.WorkoutSession, error) {
	var open int
	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM workout_sessions WHERE user_id = $1 AND NOT completed`, userID,
	).Scan(&open)
	if err != nil {
		return nil, fmt.Errorf("checking open sessions: %w", err)
	}
	if open > 0 {
		return nil, ErrSessionInProgress
	}

	var one int
	err = db.Pool.QueryRow(ctx,
		`SELECT 1 FROM workout_templates WHERE id = $1 AND user_id = $2`,
		templateID, userID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking template: %w", err)
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sess models.WorkoutSession
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_sessions (user_id, template_id, start_time)
		 VALUES ($1, $2, NOW())
		 RETURNING id, user_id, template_id, start_time, completed`,
		userID, templateID,
	).Scan(&sess.ID, &sess.UserID, &sess.TemplateID, &sess.StartTime, &sess.Completed)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}

	slots, err := tx.Query(ctx,
		`SELECT exercise_id, order_index, sets
		 FROM template_exercises
		 WHERE template_id = $1
		 ORDER BY order_index`, templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template slots: %w", err)
	}

	type slot struct {
		exerciseID uuid.UUID
		orderIndex int
		sets       int
	}
	var plan []slot
	for slots.Next() {
		var s slot
		if err := slots.Scan(&s.exerciseID, &s.orderIndex, &s.sets); err != nil {
			slots.Close()
			return nil, fmt.Errorf("scanning template slot: %w", err)
		}
		plan = append(plan, s)
	}
	slots.Close()
	if err := slots.Err(); err != nil {
		return nil, err
	}

	for _, s := range plan {
		var seID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO session_exercises (session_id, exercise_id, order_index)
			 VALUES ($1, $2, $3) RETURNING id`,
			sess.ID, s.exerciseID, s.orderIndex,
		).Scan(&seID)
		if err != nil {
			return nil, fmt.Errorf("inserting session exercise: %w", err)
		}
		for n := 1; n <= s.sets; n++ {
			if _, err := tx.Exec(ctx,
				`INSERT INTO session_sets (session_exercise_id, set_number, weight, reps, completed)
				 VALUES ($1, $2, 0, 0, FALSE)`, seID, n); err != nil {
				return nil, fmt.Errorf("inserting placeholder set: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing session start: %w", err)
	}
	return &sess, nil
}

// GetCurrentSession returns the user's in-progress session with exercises
// and sets, or ErrNotFound when none is open.
func (db *DB) GetCurrentSession(ctx context.Context, userID int) (*models.WorkoutSession, []models.SessionExercise, error) {
	var sess models.WorkoutSession
	err := db.Pool.QueryRow(ctx,
		`SELECT ws.id, ws.user_id, ws.template_id, wt.name, ws.start_time, ws.end_time, ws.duration_minutes, ws.completed
		 FROM workout_sessions ws
		 JOIN workout_templates wt ON wt.id = ws.template_id
		 WHERE ws.user_id = $1 AND NOT ws.completed
		 ORDER BY ws.start_time DESC
		 LIMIT 1`, userID,
	).Scan(&sess.ID, &sess.UserID, &sess.TemplateID, &sess.TemplateName,
		&sess.StartTime, &sess.EndTime, &sess.DurationMinutes, &sess.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying current session: %w", err)
	}

	exercises, err := db.sessionExercises(ctx, sess.ID)
	if err != nil {
		return nil, nil, err
	}
	return &sess, exercises, nil
}

// GetSession returns one session (any state) with exercises and sets.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutSession, []models.SessionExercise, error) {
	var sess models.WorkoutSession
	err := db.Pool.QueryRow(ctx,
		`SELECT ws.id, ws.user_id, ws.template_id, wt.name, ws.start_time, ws.end_time, ws.duration_minutes, ws.completed
		 FROM workout_sessions ws
		 JOIN workout_templates wt ON wt.id = ws.template_id
		 WHERE ws.id = $1 AND ws.user_id = $2`, id, userID,
	).Scan(&sess.ID, &sess.UserID, &sess.TemplateID, &sess.TemplateName,
		&sess.StartTime, &sess.EndTime, &sess.DurationMinutes, &sess.Completed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("querying session: %w", err)
	}

	exercises, err := db.sessionExercises(ctx, sess.ID)
	if err != nil {
		return nil, nil, err
	}
	return &sess, exercises, nil
}

func (db *DB) sessionExercises(ctx context.Context, sessionID uuid.UUID) ([]models.SessionExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT se.id, se.session_id, se.exercise_id, e.name, e.muscle_group, se.order_index
		 FROM session_exercises se
		 JOIN exercises e ON e.id = se.exercise_id
		 WHERE se.session_id = $1
		 ORDER BY se.order_index`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.SessionExercise
	for rows.Next() {
		var se models.SessionExercise
		if err := rows.Scan(&se.ID, &se.SessionID, &se.ExerciseID,
			&se.ExerciseName, &se.MuscleGroup, &se.OrderIndex); err != nil {
			return nil, fmt.Errorf("scanning session exercise: %w", err)
		}
		exercises = append(exercises, se)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range exercises {
		sets, err := db.sessionExerciseSets(ctx, exercises[i].ID, sessionID, exercises[i].ExerciseID)
		if err != nil {
			return nil, err
		}
		exercises[i].Sets = sets
	}
	return exercises, nil
}

func (db *DB) sessionExerciseSets(ctx context.Context, sessionExerciseID, sessionID, exerciseID uuid.UUID) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ss.id, ss.set_number, ss.weight, ss.reps, ss.rpe, ss.completed, ws.start_time
		 FROM session_sets ss
		 JOIN session_exercises se ON se.id = ss.session_exercise_id
		 JOIN workout_sessions ws ON ws.id = se.session_id
		 WHERE ss.session_exercise_id = $1
		 ORDER BY ss.set_number`, sessionExerciseID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	var sets []models.LoggedSet
	for rows.Next() {
		s := models.LoggedSet{SessionID: sessionID, ExerciseID: exerciseID}
		if err := rows.Scan(&s.ID, &s.SetNumber, &s.Weight, &s.Reps, &s.RPE, &s.Completed, &s.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

// UpdateSet updates one set's weight, reps, RPE, and completion flag. The
// user match runs through the owning session.
func (db *DB) UpdateSet(ctx context.Context, setID uuid.UUID, userID int, weight float64, reps int, rpe *float64, completed bool) (*models.LoggedSet, error) {
	s := models.LoggedSet{ID: setID}
	err := db.Pool.QueryRow(ctx,
		`UPDATE session_sets ss
		 SET weight = $3, reps = $4, rpe = $5, completed = $6
		 FROM session_exercises se, workout_sessions ws
		 WHERE ss.id = $1
		   AND se.id = ss.session_exercise_id
		   AND ws.id = se.session_id
		   AND ws.user_id = $2
		 RETURNING ss.set_number, ss.weight, ss.reps, ss.rpe, ss.completed, se.exercise_id, ws.id, ws.start_time`,
		setID, userID, weight, reps, rpe, completed,
	).Scan(&s.SetNumber, &s.Weight, &s.Reps, &s.RPE, &s.Completed, &s.ExerciseID, &s.SessionID, &s.OccurredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating set: %w", err)
	}
	return &s, nil
}

// CompleteSession marks a session finished and records its duration in
// whole minutes.
func (db *DB) CompleteSession(ctx context.Context, id uuid.UUID, userID int, now time.Time) (*models.WorkoutSession, error) {
	var start time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT start_time FROM workout_sessions WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&start)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session start: %w", err)
	}

	duration := int(math.Round(now.Sub(start).Minutes()))

	var sess models.WorkoutSession
	err = db.Pool.QueryRow(ctx,
		`UPDATE workout_sessions
		 SET end_time = $3, duration_minutes = $4, completed = TRUE
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, template_id, start_time, end_time, duration_minutes, completed`,
		id, userID, now, duration,
	).Scan(&sess.ID, &sess.UserID, &sess.TemplateID, &sess.StartTime,
		&sess.EndTime, &sess.DurationMinutes, &sess.Completed)
	if err != nil {
		return nil, fmt.Errorf("completing session: %w", err)
	}
	return &sess, nil
}

// CancelSession deletes an in-progress session. Completed sessions are
// history and cannot be cancelled.
func (db *DB) CancelSession(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1 AND user_id = $2 AND NOT completed`, id, userID)
	if err != nil {
		return fmt.Errorf("cancelling session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentCompletedSessions returns the user's most recent completed sessions
// (newest first, bounded by limit) together with their exercises and sets,
// ready for the history summarizer.
func (db *DB) RecentCompletedSessions(ctx context.Context, userID, limit int) ([]models.WorkoutSession, map[uuid.UUID][]models.SessionExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ws.id, ws.user_id, ws.template_id, wt.name, ws.start_time, ws.end_time, ws.duration_minutes, ws.completed
		 FROM workout_sessions ws
		 JOIN workout_templates wt ON wt.id = ws.template_id
		 WHERE ws.user_id = $1 AND ws.completed
		 ORDER BY ws.start_time DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, nil, fmt.Errorf("querying session history: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.TemplateID, &s.TemplateName,
			&s.StartTime, &s.EndTime, &s.DurationMinutes, &s.Completed); err != nil {
			return nil, nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	bySession := make(map[uuid.UUID][]models.SessionExercise, len(sessions))
	for _, s := range sessions {
		exercises, err := db.sessionExercises(ctx, s.ID)
		if err != nil {
			return nil, nil, err
		}
		bySession[s.ID] = exercises
	}
	return sessions, bySession, nil
}
