package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/analytics"
	"github.com/meltforce/gymlog/internal/storage"
)

// Progress endpoints share a shape: load the completed-set feed for the
// requested window, run the pure computation, write whatever comes back.
// An empty feed yields null, not an error; having no data is a normal state
// for a new account.

func (s *Server) handleOneRepMax(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, ok := queryUUID(w, r, "exercise_id")
	if !ok {
		return
	}
	sets, err := s.db.CompletedSetsForExercise(r.Context(), uid, exerciseID, time.Time{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.EstimateOneRepMax(sets))
}

func (s *Server) handleVolumeProgression(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, ok := queryUUID(w, r, "exercise_id")
	if !ok {
		return
	}
	tf := analytics.Timeframe(r.URL.Query().Get("timeframe"))
	cutoff := tf.Cutoff(time.Now().UTC())
	sets, err := s.db.CompletedSetsForExercise(r.Context(), uid, exerciseID, cutoff)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.VolumeProgression(sets))
}

func (s *Server) handleStrengthStandards(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exerciseID, ok := queryUUID(w, r, "exercise_id")
	if !ok {
		return
	}
	sets, err := s.db.CompletedSetsForExercise(r.Context(), uid, exerciseID, time.Time{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.ClassifyStrength(sets))
}

func (s *Server) handlePersonalRecords(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var cutoff time.Time
	if tf := r.URL.Query().Get("timeframe"); tf != "" {
		cutoff = analytics.Timeframe(tf).Cutoff(time.Now().UTC())
	}
	sets, err := s.db.CompletedSets(r.Context(), uid, cutoff)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// Optional single-exercise filter. Records need the chronological feed,
	// so filtering happens here rather than using the weight-ordered
	// per-exercise query.
	if raw := r.URL.Query().Get("exercise_id"); raw != "" {
		exerciseID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise_id"})
			return
		}
		filtered := sets[:0]
		for _, set := range sets {
			if set.ExerciseID == exerciseID {
				filtered = append(filtered, set)
			}
		}
		sets = filtered
	}
	exercises, err := s.db.ExerciseInfoMap(r.Context(), storage.ExerciseIDsIn(sets))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	info := make(map[uuid.UUID]analytics.ExerciseInfo, len(exercises))
	for id, ex := range exercises {
		info[id] = analytics.ExerciseInfo{Name: ex.Name, MuscleGroup: ex.MuscleGroup}
	}
	writeJSON(w, http.StatusOK, analytics.PersonalRecords(sets, info))
}
