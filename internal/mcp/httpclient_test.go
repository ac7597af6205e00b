package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/analytics"
	"github.com/meltforce/gymlog/internal/models"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestOneRepMax verifies the HTTP client sends the exercise_id param and
// parses the estimate response.
func TestOneRepMax(t *testing.T) {
	exID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/onerm": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("exercise_id"); got != exID.String() {
				t.Errorf("exercise_id=%q, want %q", got, exID)
			}
			writeTestJSON(t, w, analytics.OneRepMaxResult{
				OneRepMax:    116.67,
				Calculations: []analytics.SetEstimate{{Weight: 100, Reps: 5, OneRM: 116.67}},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	got, err := client.OneRepMax(context.Background(), 1, exID)
	if err != nil {
		t.Fatal(err)
	}
	if got.OneRepMax != 116.67 {
		t.Errorf("one_rep_max = %v, want 116.67", got.OneRepMax)
	}
	if len(got.Calculations) != 1 {
		t.Errorf("calculations = %d, want 1", len(got.Calculations))
	}
}

// TestOneRepMaxNull verifies a JSON null response (no completed sets) comes
// back as a nil result, not an error.
func TestOneRepMaxNull(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/onerm": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte("null\n"))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	got, err := client.OneRepMax(context.Background(), 1, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("result = %+v, want nil", got)
	}
}

// TestVolumeProgression verifies the timeframe param and array decoding.
func TestVolumeProgression(t *testing.T) {
	exID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/volume": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("timeframe"); got != "week" {
				t.Errorf("timeframe=%q, want week", got)
			}
			writeTestJSON(t, w, []analytics.VolumePoint{
				{Date: "2026-08-25", TotalVolume: 1500},
				{Date: "2026-08-27", TotalVolume: 1800},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	points, err := client.VolumeProgression(context.Background(), 1, exID, analytics.TimeframeWeek)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Date != "2026-08-25" {
		t.Errorf("first date = %q, want 2026-08-25", points[0].Date)
	}
}

// TestFindExercise verifies name matching is case-insensitive over the
// exercise list.
func TestFindExercise(t *testing.T) {
	exID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []models.Exercise{
				{ID: uuid.New(), Name: "Squat", MuscleGroup: "legs"},
				{ID: exID, Name: "Barbell Bench Press", MuscleGroup: "chest"},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	got, err := client.FindExercise(context.Background(), 1, "barbell bench press")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != exID {
		t.Errorf("id = %v, want %v", got.ID, exID)
	}

	if _, err := client.FindExercise(context.Background(), 1, "Zercher Squat"); err == nil {
		t.Error("expected error for unknown exercise")
	}
}

// TestSessionHistory verifies the limit param and summary decoding.
func TestSessionHistory(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/history": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit=%q, want 5", got)
			}
			writeTestJSON(t, w, []analytics.SessionSummary{
				{SessionID: uuid.New(), TemplateName: "Push Day", TotalVolume: 7200, TotalSets: 18, ExerciseCount: 6},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sessions, err := client.SessionHistory(context.Background(), 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].TotalSets != 18 {
		t.Errorf("total_sets = %d, want 18", sessions[0].TotalSets)
	}
}

// TestErrorStatus verifies non-200 responses surface as errors with the
// path and status included.
func TestErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/progress/records": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.PersonalRecords(context.Background(), 1); err == nil {
		t.Error("expected error for 500 response")
	}
}
