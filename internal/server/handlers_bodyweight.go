package server

import (
	"encoding/json"
	"net/http"
	"time"
)

func (s *Server) handleListBodyWeight(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	limit := queryLimit(r, 30, 365)
	logs, err := s.db.ListBodyWeight(r.Context(), uid, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleLogBodyWeight(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	var req struct {
		Weight   float64    `json:"weight"`
		Unit     string     `json:"unit"`
		LoggedAt *time.Time `json:"logged_at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Weight <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weight must be positive"})
		return
	}
	if req.Unit == "" {
		req.Unit = "kg"
	}
	if req.Unit != "kg" && req.Unit != "lbs" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit must be kg or lbs"})
		return
	}
	loggedAt := time.Now().UTC()
	if req.LoggedAt != nil {
		loggedAt = *req.LoggedAt
	}
	log, err := s.db.InsertBodyWeight(r.Context(), uid, req.Weight, req.Unit, loggedAt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, log)
}
