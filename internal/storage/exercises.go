package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/gymlog/internal/models"
)

// ErrNotFound is returned when a requested row does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("not found")

// ListExercises returns built-in exercises plus the user's custom ones,
// ordered by muscle group then name.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, muscle_group, equipment, is_custom, user_id, created_at
		 FROM exercises
		 WHERE user_id IS NULL OR user_id = $1
		 ORDER BY muscle_group, name`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment,
			&e.IsCustom, &e.UserID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// GetExercise returns one exercise visible to the user.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID, userID int) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, muscle_group, equipment, is_custom, user_id, created_at
		 FROM exercises
		 WHERE id = $1 AND (user_id IS NULL OR user_id = $2)`, id, userID,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCustom, &e.UserID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise: %w", err)
	}
	return &e, nil
}

// CreateExercise inserts a custom exercise owned by the user.
func (db *DB) CreateExercise(ctx context.Context, userID int, name, muscleGroup string, equipment *string) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (name, muscle_group, equipment, is_custom, user_id)
		 VALUES ($1, $2, $3, TRUE, $4)
		 RETURNING id, name, muscle_group, equipment, is_custom, user_id, created_at`,
		name, muscleGroup, equipment, userID,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCustom, &e.UserID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &e, nil
}

// UpdateExercise updates a custom exercise. Built-in exercises cannot be
// edited, so the user match is part of the predicate.
func (db *DB) UpdateExercise(ctx context.Context, id uuid.UUID, userID int, name, muscleGroup string, equipment *string) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`UPDATE exercises
		 SET name = $3, muscle_group = $4, equipment = $5
		 WHERE id = $1 AND user_id = $2 AND is_custom
		 RETURNING id, name, muscle_group, equipment, is_custom, user_id, created_at`,
		id, userID, name, muscleGroup, equipment,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCustom, &e.UserID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating exercise: %w", err)
	}
	return &e, nil
}

// DeleteExercise removes a custom exercise owned by the user.
func (db *DB) DeleteExercise(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2 AND is_custom`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetExerciseByName finds an exercise by exact name among built-ins and the
// user's custom exercises. Used by the importer to resolve CSV rows.
func (db *DB) GetExerciseByName(ctx context.Context, userID int, name string) (*models.Exercise, error) {
	var e models.Exercise
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, muscle_group, equipment, is_custom, user_id, created_at
		 FROM exercises
		 WHERE name = $1 AND (user_id IS NULL OR user_id = $2)
		 ORDER BY is_custom DESC
		 LIMIT 1`, name, userID,
	).Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.IsCustom, &e.UserID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying exercise by name: %w", err)
	}
	return &e, nil
}

// ExerciseInfoMap loads display labels for a slice of exercise IDs, for
// labeling personal-record output.
func (db *DB) ExerciseInfoMap(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Exercise, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Exercise{}, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, muscle_group, equipment, is_custom, user_id, created_at
		 FROM exercises WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying exercise labels: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID]models.Exercise, len(ids))
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment,
			&e.IsCustom, &e.UserID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result[e.ID] = e
	}
	return result, rows.Err()
}
