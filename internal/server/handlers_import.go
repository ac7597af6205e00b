package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/models"
	"github.com/meltforce/gymlog/internal/storage"
)

type importSetRequest struct {
	ExerciseName string   `json:"exercise_name"`
	MuscleGroup  string   `json:"muscle_group,omitempty"`
	SessionDate  string   `json:"session_date"`
	SetNumber    int      `json:"set_number"`
	Weight       float64  `json:"weight"`
	Reps         int      `json:"reps"`
	RPE          *float64 `json:"rpe,omitempty"`
}

type importRequest struct {
	UserID int                `json:"user_id,omitempty"`
	Sets   []importSetRequest `json:"sets"`
}

// handleImportSets ingests a batch of historical sets. Exercises are matched
// by name, creating a custom exercise when no match exists. Rows that were
// already imported are counted as skipped, not errors, so re-running an
// import is safe.
func (s *Server) handleImportSets(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Sets) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sets must not be empty"})
		return
	}
	uid := req.UserID
	if uid == 0 {
		uid = 1
	}

	ctx := r.Context()
	exerciseIDs := make(map[string]uuid.UUID)
	rows := make([]storage.ImportedSetRow, 0, len(req.Sets))
	for i, in := range req.Sets {
		date, err := time.Parse("2006-01-02", in.SessionDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "row " + strconv.Itoa(i) + ": invalid session_date, want YYYY-MM-DD",
			})
			return
		}
		probe := models.LoggedSet{Weight: in.Weight, Reps: in.Reps, RPE: in.RPE, Completed: true, OccurredAt: date}
		if err := models.ValidateLoggedSet(probe); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "row " + strconv.Itoa(i) + ": " + err.Error()})
			return
		}
		if in.ExerciseName == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "row " + strconv.Itoa(i) + ": exercise_name required"})
			return
		}

		id, ok := exerciseIDs[in.ExerciseName]
		if !ok {
			id, err = s.resolveExercise(ctx, uid, in.ExerciseName, in.MuscleGroup)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			exerciseIDs[in.ExerciseName] = id
		}

		rows = append(rows, storage.ImportedSetRow{
			UserID:      uid,
			ExerciseID:  id,
			SessionDate: date,
			SetNumber:   in.SetNumber,
			Weight:      in.Weight,
			Reps:        in.Reps,
			RPE:         in.RPE,
		})
	}

	inserted, err := s.db.InsertImportedSets(ctx, rows)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.log.Info("imported sets", "user_id", uid, "received", len(rows), "inserted", inserted)
	writeJSON(w, http.StatusOK, map[string]int64{
		"received": int64(len(rows)),
		"inserted": inserted,
		"skipped":  int64(len(rows)) - inserted,
	})
}

// resolveExercise finds an exercise by name, falling back to creating a
// custom one. Imported exercises without a known muscle group land in
// "core" rather than failing the batch.
func (s *Server) resolveExercise(ctx context.Context, uid int, name, muscleGroup string) (uuid.UUID, error) {
	exercise, err := s.db.GetExerciseByName(ctx, uid, name)
	if err == nil {
		return exercise.ID, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return uuid.Nil, err
	}
	if !models.ValidMuscleGroup(muscleGroup) {
		muscleGroup = "core"
	}
	created, err := s.db.CreateExercise(ctx, uid, name, muscleGroup, nil)
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}
