package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/models"
	"github.com/meltforce/gymlog/internal/storage"
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	stats, err := s.db.GetDataStats(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- Exercises ---

type exercisePayload struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Equipment   *string `json:"equipment,omitempty"`
}

func (p exercisePayload) validate() error {
	if p.Name == "" || len(p.Name) > 100 {
		return errors.New("name must be 1-100 characters")
	}
	if !models.ValidMuscleGroup(p.MuscleGroup) {
		return errors.New("unknown muscle group: " + p.MuscleGroup)
	}
	return nil
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	exercises, err := s.db.ListExercises(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var p exercisePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := p.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	exercise, err := s.db.CreateExercise(r.Context(), uid, p.Name, p.MuscleGroup, p.Equipment)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var p exercisePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := p.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	exercise, err := s.db.UpdateExercise(r.Context(), id, uid, p.Name, p.MuscleGroup, p.Equipment)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := s.db.DeleteExercise(r.Context(), id, uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Templates ---

type templatePayload struct {
	Name      string                    `json:"name"`
	DayNumber int                       `json:"day_number"`
	Exercises []templateExercisePayload `json:"exercises"`
}

type templateExercisePayload struct {
	ExerciseID      uuid.UUID `json:"exercise_id"`
	OrderIndex      int       `json:"order_index"`
	Sets            int       `json:"sets"`
	RepsMin         int       `json:"reps_min"`
	RepsMax         int       `json:"reps_max"`
	RPETarget       *int      `json:"rpe_target,omitempty"`
	RestTimeSeconds int       `json:"rest_time_seconds"`
}

func (p templatePayload) validate() error {
	if p.Name == "" || len(p.Name) > 50 {
		return errors.New("name must be 1-50 characters")
	}
	if p.DayNumber < 1 || p.DayNumber > 7 {
		return errors.New("day_number must be 1-7")
	}
	for _, te := range p.Exercises {
		if te.Sets < 1 {
			return errors.New("each exercise needs at least one set")
		}
		if te.RepsMin < 1 || te.RepsMax < te.RepsMin {
			return errors.New("invalid rep range")
		}
	}
	return nil
}

func (p templatePayload) toModel() []models.TemplateExercise {
	exercises := make([]models.TemplateExercise, len(p.Exercises))
	for i, te := range p.Exercises {
		exercises[i] = models.TemplateExercise{
			ExerciseID:      te.ExerciseID,
			OrderIndex:      te.OrderIndex,
			Sets:            te.Sets,
			RepsMin:         te.RepsMin,
			RepsMax:         te.RepsMax,
			RPETarget:       te.RPETarget,
			RestTimeSeconds: te.RestTimeSeconds,
		}
	}
	return exercises
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	templates, err := s.db.ListTemplates(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	template, err := s.db.GetTemplate(r.Context(), id, uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var p templatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := p.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	template, err := s.db.CreateTemplate(r.Context(), uid, p.Name, p.DayNumber, p.toModel())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, template)
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var p templatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := p.validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	template, err := s.db.UpdateTemplate(r.Context(), id, uid, p.Name, p.DayNumber, p.toModel())
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	err := s.db.DeleteTemplate(r.Context(), id, uid)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": param + " parameter required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func queryLimit(r *http.Request, def, max int) int {
	limit := def
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > max {
		limit = max
	}
	return limit
}
