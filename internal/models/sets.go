package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrMalformedSet marks a LoggedSet whose shape is invalid (non-positive
// weight, out-of-range reps, missing timestamp). Callers can test for it
// with errors.Is.
var ErrMalformedSet = errors.New("malformed logged set")

// MaxReps is the upper bound accepted for a single set.
const MaxReps = 100

// LoggedSet is one completed or placeholder attempt at an exercise within
// a session, as fetched from session_sets joined with its owning session.
// Analytics only ever sees sets that passed ValidateLoggedSet.
type LoggedSet struct {
	ID         uuid.UUID  `json:"id"`
	SessionID  uuid.UUID  `json:"session_id"`
	ExerciseID uuid.UUID  `json:"exercise_id"`
	SetNumber  int        `json:"set_number"`
	Weight     float64    `json:"weight"`
	Reps       int        `json:"reps"`
	RPE        *float64   `json:"rpe,omitempty"`
	Completed  bool       `json:"completed"`
	OccurredAt time.Time  `json:"occurred_at"` // start time of the owning session
}

// Volume returns weight × reps, the mechanical work proxy for one set.
func (s LoggedSet) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// ValidateLoggedSet checks the numeric shape of a set at the storage/core
// boundary. Placeholder sets (completed=false) are allowed to carry zero
// weight and reps; completed sets must be fully populated.
func ValidateLoggedSet(s LoggedSet) error {
	if !s.Completed {
		return nil
	}
	if s.Weight <= 0 {
		return fmt.Errorf("%w: weight %v must be positive", ErrMalformedSet, s.Weight)
	}
	if s.Reps < 1 || s.Reps > MaxReps {
		return fmt.Errorf("%w: reps %d out of range 1..%d", ErrMalformedSet, s.Reps, MaxReps)
	}
	if s.OccurredAt.IsZero() {
		return fmt.Errorf("%w: missing session start time", ErrMalformedSet)
	}
	return nil
}

// CompletedOnly filters a set collection down to completed sets, validating
// each one. The analytics package operates on the returned slice only.
func CompletedOnly(sets []LoggedSet) ([]LoggedSet, error) {
	out := make([]LoggedSet, 0, len(sets))
	for _, s := range sets {
		if !s.Completed {
			continue
		}
		if err := ValidateLoggedSet(s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
