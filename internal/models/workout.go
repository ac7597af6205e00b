package models

import (
	"time"

	"github.com/google/uuid"
)

// MuscleGroups lists the valid muscle_group enum values.
var MuscleGroups = []string{"chest", "back", "shoulders", "arms", "legs", "core"}

// ValidMuscleGroup reports whether g is a known muscle group.
func ValidMuscleGroup(g string) bool {
	for _, m := range MuscleGroups {
		if m == g {
			return true
		}
	}
	return false
}

// Exercise is a row from the exercises table. Built-in exercises have a nil
// UserID and are visible to everyone; custom exercises belong to one user.
type Exercise struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group"`
	Equipment   *string   `json:"equipment,omitempty"`
	IsCustom    bool      `json:"is_custom"`
	UserID      *int      `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutTemplate is a named workout plan pinned to a day of the week.
type WorkoutTemplate struct {
	ID        uuid.UUID          `json:"id"`
	UserID    int                `json:"user_id"`
	Name      string             `json:"name"`
	DayNumber int                `json:"day_number"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Exercises []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateExercise is one exercise slot within a template, with target
// set/rep prescriptions.
type TemplateExercise struct {
	ID              uuid.UUID `json:"id"`
	TemplateID      uuid.UUID `json:"template_id"`
	ExerciseID      uuid.UUID `json:"exercise_id"`
	ExerciseName    string    `json:"exercise_name,omitempty"`
	MuscleGroup     string    `json:"muscle_group,omitempty"`
	OrderIndex      int       `json:"order_index"`
	Sets            int       `json:"sets"`
	RepsMin         int       `json:"reps_min"`
	RepsMax         int       `json:"reps_max"`
	RPETarget       *int      `json:"rpe_target,omitempty"`
	RestTimeSeconds int       `json:"rest_time_seconds"`
}

// WorkoutSession is one execution of a template. Completed sessions carry
// an end time and duration; in-progress sessions have Completed=false and
// are excluded from all analytics.
type WorkoutSession struct {
	ID              uuid.UUID  `json:"id"`
	UserID          int        `json:"user_id"`
	TemplateID      uuid.UUID  `json:"template_id"`
	TemplateName    string     `json:"template_name,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`
	Completed       bool       `json:"completed"`
}

// SessionExercise is one exercise performed (or scheduled) within a session.
type SessionExercise struct {
	ID           uuid.UUID   `json:"id"`
	SessionID    uuid.UUID   `json:"session_id"`
	ExerciseID   uuid.UUID   `json:"exercise_id"`
	ExerciseName string      `json:"exercise_name,omitempty"`
	MuscleGroup  string      `json:"muscle_group,omitempty"`
	OrderIndex   int         `json:"order_index"`
	Sets         []LoggedSet `json:"sets,omitempty"`
}

// BodyWeightLog is one bodyweight measurement.
type BodyWeightLog struct {
	ID       uuid.UUID `json:"id"`
	UserID   int       `json:"user_id"`
	Weight   float64   `json:"weight"`
	Unit     string    `json:"unit"`
	LoggedAt time.Time `json:"logged_at"`
}
