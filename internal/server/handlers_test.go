package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/analytics"
	"github.com/meltforce/gymlog/internal/models"
	"github.com/meltforce/gymlog/internal/storage"
)

// stubStore embeds the Store interface and overrides only what each test
// exercises. Calling anything else panics, which is the point.
type stubStore struct {
	Store

	exercises    []models.Exercise
	sets         []models.LoggedSet
	startErr     error
	importedRows []storage.ImportedSetRow
}

func (s *stubStore) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	return s.exercises, nil
}

func (s *stubStore) UpdateExercise(ctx context.Context, id uuid.UUID, userID int, name, muscleGroup string, equipment *string) (*models.Exercise, error) {
	return nil, storage.ErrNotFound
}

func (s *stubStore) StartSession(ctx context.Context, userID int, templateID uuid.UUID) (*models.WorkoutSession, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	return &models.WorkoutSession{ID: uuid.New(), UserID: userID, TemplateID: templateID, StartTime: time.Now()}, nil
}

func (s *stubStore) CompletedSetsForExercise(ctx context.Context, userID int, exerciseID uuid.UUID, cutoff time.Time) ([]models.LoggedSet, error) {
	return s.sets, nil
}

func (s *stubStore) GetExerciseByName(ctx context.Context, userID int, name string) (*models.Exercise, error) {
	for i := range s.exercises {
		if s.exercises[i].Name == name {
			return &s.exercises[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *stubStore) InsertImportedSets(ctx context.Context, rows []storage.ImportedSetRow) (int64, error) {
	s.importedRows = append(s.importedRows, rows...)
	return int64(len(rows)), nil
}

func newTestServer(db Store) *Server {
	return New(db, "test-key", slog.Default())
}

// TestHandleMeDefault verifies /api/v1/me returns the dev identity when no
// Tailscale client is attached.
func TestHandleMeDefault(t *testing.T) {
	s := newTestServer(&stubStore{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestListExercises verifies the exercise list round-trips through the
// router with dev identity applied.
func TestListExercises(t *testing.T) {
	db := &stubStore{exercises: []models.Exercise{
		{ID: uuid.New(), Name: "Barbell Bench Press", MuscleGroup: "chest"},
		{ID: uuid.New(), Name: "Squat", MuscleGroup: "legs"},
	}}
	s := newTestServer(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []models.Exercise
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len(exercises) = %d, want 2", len(got))
	}
}

// TestCreateExerciseRejectsBadMuscleGroup verifies muscle group validation
// happens before the store is touched.
func TestCreateExerciseRejectsBadMuscleGroup(t *testing.T) {
	s := newTestServer(&stubStore{})
	body := `{"name":"Neck Curl","muscle_group":"neck"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exercises", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestUpdateExerciseNotFound verifies unknown exercise IDs yield 404.
func TestUpdateExerciseNotFound(t *testing.T) {
	s := newTestServer(&stubStore{})
	body := `{"name":"Bench","muscle_group":"chest"}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/exercises/"+uuid.NewString(), strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestStartSessionConflict verifies a second concurrent session is rejected
// with 409 rather than a generic error.
func TestStartSessionConflict(t *testing.T) {
	s := newTestServer(&stubStore{startErr: storage.ErrSessionInProgress})
	body := `{"template_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

// TestStartSessionUnknownTemplate verifies starting from a template the
// user does not have returns 404.
func TestStartSessionUnknownTemplate(t *testing.T) {
	s := newTestServer(&stubStore{startErr: storage.ErrNotFound})
	body := `{"template_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestOneRepMaxNoData verifies an exercise with no completed sets returns
// null, not an error.
func TestOneRepMaxNoData(t *testing.T) {
	s := newTestServer(&stubStore{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/onerm?exercise_id="+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Errorf("body = %q, want null", body)
	}
}

// TestOneRepMaxWithData verifies the estimate flows from the set feed
// through the Epley computation to the response.
func TestOneRepMaxWithData(t *testing.T) {
	exID := uuid.New()
	db := &stubStore{sets: []models.LoggedSet{
		{ExerciseID: exID, Weight: 100, Reps: 5, Completed: true, OccurredAt: time.Now()},
	}}
	s := newTestServer(db)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/progress/onerm?exercise_id="+exID.String(), nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var got analytics.OneRepMaxResult
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.OneRepMax != 116.67 {
		t.Errorf("one_rep_max = %v, want 116.67", got.OneRepMax)
	}
}

// TestProgressRequiresExerciseID verifies the exercise-scoped progress
// endpoints reject requests without an exercise_id parameter.
func TestProgressRequiresExerciseID(t *testing.T) {
	s := newTestServer(&stubStore{})
	for _, path := range []string{"/api/v1/progress/onerm", "/api/v1/progress/volume", "/api/v1/progress/standards"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rec.Code)
		}
	}
}

// TestImportSetsRequiresKey verifies the import route sits behind the API
// key, not behind interactive identity.
func TestImportSetsRequiresKey(t *testing.T) {
	s := newTestServer(&stubStore{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/sets", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestImportSets verifies a valid batch resolves exercises by name and
// reaches the store.
func TestImportSets(t *testing.T) {
	exID := uuid.New()
	db := &stubStore{exercises: []models.Exercise{{ID: exID, Name: "Deadlift", MuscleGroup: "back"}}}
	s := newTestServer(db)

	body := `{"sets":[{"exercise_name":"Deadlift","session_date":"2026-08-01","set_number":1,"weight":140,"reps":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/sets", strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(db.importedRows) != 1 {
		t.Fatalf("imported rows = %d, want 1", len(db.importedRows))
	}
	if db.importedRows[0].ExerciseID != exID {
		t.Errorf("exercise id = %v, want %v", db.importedRows[0].ExerciseID, exID)
	}
	if db.importedRows[0].UserID != 1 {
		t.Errorf("user id = %d, want 1", db.importedRows[0].UserID)
	}
}

// TestImportSetsRejectsBadRow verifies boundary validation applies to
// imported history the same as to live sets.
func TestImportSetsRejectsBadRow(t *testing.T) {
	s := newTestServer(&stubStore{})
	body := `{"sets":[{"exercise_name":"Deadlift","session_date":"2026-08-01","set_number":1,"weight":-5,"reps":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/sets", strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
