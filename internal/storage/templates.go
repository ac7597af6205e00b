package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/gymlog/internal/models"
)

// ListTemplates returns the user's workout templates with their exercise
// slots, ordered by day number.
func (db *DB) ListTemplates(ctx context.Context, userID int) ([]models.WorkoutTemplate, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, day_number, created_at, updated_at
		 FROM workout_templates
		 WHERE user_id = $1
		 ORDER BY day_number, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []models.WorkoutTemplate
	for rows.Next() {
		var t models.WorkoutTemplate
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.DayNumber, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range templates {
		exercises, err := db.templateExercises(ctx, templates[i].ID)
		if err != nil {
			return nil, err
		}
		templates[i].Exercises = exercises
	}
	return templates, nil
}

// GetTemplate returns one template with exercise slots.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, day_number, created_at, updated_at
		 FROM workout_templates
		 WHERE id = $1 AND user_id = $2`, id, userID,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.DayNumber, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying template: %w", err)
	}

	t.Exercises, err = db.templateExercises(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (db *DB) templateExercises(ctx context.Context, templateID uuid.UUID) ([]models.TemplateExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT te.id, te.template_id, te.exercise_id, e.name, e.muscle_group,
		        te.order_index, te.sets, te.reps_min, te.reps_max, te.rpe_target, te.rest_time_seconds
		 FROM template_exercises te
		 JOIN exercises e ON e.id = te.exercise_id
		 WHERE te.template_id = $1
		 ORDER BY te.order_index`, templateID)
	if err != nil {
		return nil, fmt.Errorf("querying template exercises: %w", err)
	}
	defer rows.Close()

	var result []models.TemplateExercise
	for rows.Next() {
		var te models.TemplateExercise
		if err := rows.Scan(&te.ID, &te.TemplateID, &te.ExerciseID, &te.ExerciseName, &te.MuscleGroup,
			&te.OrderIndex, &te.Sets, &te.RepsMin, &te.RepsMax, &te.RPETarget, &te.RestTimeSeconds); err != nil {
			return nil, fmt.Errorf("scanning template exercise: %w", err)
		}
		result = append(result, te)
	}
	return result, rows.Err()
}

// CreateTemplate inserts a template and its exercise slots in one
// transaction.
func (db *DB) CreateTemplate(ctx context.Context, userID int, name string, dayNumber int, exercises []models.TemplateExercise) (*models.WorkoutTemplate, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO workout_templates (user_id, name, day_number)
		 VALUES ($1, $2, $3) RETURNING id`, userID, name, dayNumber,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("inserting template: %w", err)
	}

	if err := insertTemplateExercises(ctx, tx, id, exercises); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing template: %w", err)
	}
	return db.GetTemplate(ctx, id, userID)
}

// UpdateTemplate replaces a template's metadata and exercise slots.
func (db *DB) UpdateTemplate(ctx context.Context, id uuid.UUID, userID int, name string, dayNumber int, exercises []models.TemplateExercise) (*models.WorkoutTemplate, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE workout_templates
		 SET name = $3, day_number = $4, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`, id, userID, name, dayNumber)
	if err != nil {
		return nil, fmt.Errorf("updating template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM template_exercises WHERE template_id = $1`, id); err != nil {
		return nil, fmt.Errorf("clearing template exercises: %w", err)
	}
	if err := insertTemplateExercises(ctx, tx, id, exercises); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing template update: %w", err)
	}
	return db.GetTemplate(ctx, id, userID)
}

func insertTemplateExercises(ctx context.Context, tx pgx.Tx, templateID uuid.UUID, exercises []models.TemplateExercise) error {
	for _, te := range exercises {
		rest := te.RestTimeSeconds
		if rest == 0 {
			rest = 120
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO template_exercises
			 (template_id, exercise_id, order_index, sets, reps_min, reps_max, rpe_target, rest_time_seconds)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			templateID, te.ExerciseID, te.OrderIndex, te.Sets, te.RepsMin, te.RepsMax, te.RPETarget, rest)
		if err != nil {
			return fmt.Errorf("inserting template exercise: %w", err)
		}
	}
	return nil
}

// DeleteTemplate removes a template; session history rows pointing at it
// cascade per the schema.
func (db *DB) DeleteTemplate(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
