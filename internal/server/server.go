package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/models"
	"github.com/meltforce/gymlog/internal/storage"
	"tailscale.com/client/local"
)

// Store is the data-layer surface the handlers depend on. *storage.DB
// satisfies it; tests substitute a stub.
type Store interface {
	userResolver

	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID, userID int) (*models.Exercise, error)
	CreateExercise(ctx context.Context, userID int, name, muscleGroup string, equipment *string) (*models.Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, userID int, name, muscleGroup string, equipment *string) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID, userID int) error
	ExerciseInfoMap(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Exercise, error)

	ListTemplates(ctx context.Context, userID int) ([]models.WorkoutTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutTemplate, error)
	CreateTemplate(ctx context.Context, userID int, name string, dayNumber int, exercises []models.TemplateExercise) (*models.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, userID int, name string, dayNumber int, exercises []models.TemplateExercise) (*models.WorkoutTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID, userID int) error

	StartSession(ctx context.Context, userID int, templateID uuid.UUID) (*models.WorkoutSession, error)
	GetCurrentSession(ctx context.Context, userID int) (*models.WorkoutSession, []models.SessionExercise, error)
	GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutSession, []models.SessionExercise, error)
	UpdateSet(ctx context.Context, setID uuid.UUID, userID int, weight float64, reps int, rpe *float64, completed bool) (*models.LoggedSet, error)
	CompleteSession(ctx context.Context, id uuid.UUID, userID int, now time.Time) (*models.WorkoutSession, error)
	CancelSession(ctx context.Context, id uuid.UUID, userID int) error
	RecentCompletedSessions(ctx context.Context, userID, limit int) ([]models.WorkoutSession, map[uuid.UUID][]models.SessionExercise, error)
	PreviousSessionValues(ctx context.Context, userID int, exerciseID uuid.UUID, limit int) ([]storage.PreviousSession, error)

	CompletedSetsForExercise(ctx context.Context, userID int, exerciseID uuid.UUID, cutoff time.Time) ([]models.LoggedSet, error)
	CompletedSets(ctx context.Context, userID int, cutoff time.Time) ([]models.LoggedSet, error)
	InsertImportedSets(ctx context.Context, rows []storage.ImportedSetRow) (int64, error)
	GetExerciseByName(ctx context.Context, userID int, name string) (*models.Exercise, error)

	InsertBodyWeight(ctx context.Context, userID int, weight float64, unit string, loggedAt time.Time) (*models.BodyWeightLog, error)
	ListBodyWeight(ctx context.Context, userID, limit int) ([]models.BodyWeightLog, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        Store
	log       *slog.Logger
	importKey string
	router    chi.Router
	tsClient  *local.Client
}

// New creates a new Server with all routes configured.
func New(db Store, importKey string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		log:       log,
		importKey: importKey,
	}
	s.routes()
	return s
}

// SetTailscale switches identity resolution to tailnet WhoIs lookups.
// Must be called before the first request is served.
func (s *Server) SetTailscale(lc *local.Client) {
	s.tsClient = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// identity picks the resolver per request: tailnet WhoIs when a Tailscale
// client is attached, the fixed dev user otherwise.
func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.tsClient != nil {
			TailscaleIdentity(s.tsClient, s.db, s.log)(next).ServeHTTP(w, r)
			return
		}
		dev.ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(RequestLogging(s.log))
	r.Use(CORS)

	identity := s.identity

	// Bulk import (API key required, no interactive identity)
	r.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.importKey))
		r.Post("/sets", s.handleImportSets)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity)

		r.Get("/me", s.handleMe)
		r.Get("/stats", s.handleStats)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		r.Get("/templates", s.handleListTemplates)
		r.Post("/templates", s.handleCreateTemplate)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Put("/templates/{id}", s.handleUpdateTemplate)
		r.Delete("/templates/{id}", s.handleDeleteTemplate)

		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/current", s.handleCurrentSession)
		r.Get("/sessions/history", s.handleSessionHistory)
		r.Get("/sessions/previous", s.handlePreviousSessionValues)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Patch("/sessions/sets/{id}", s.handleUpdateSet)
		r.Post("/sessions/{id}/complete", s.handleCompleteSession)
		r.Delete("/sessions/{id}", s.handleCancelSession)

		r.Get("/progress/onerm", s.handleOneRepMax)
		r.Get("/progress/volume", s.handleVolumeProgression)
		r.Get("/progress/standards", s.handleStrengthStandards)
		r.Get("/progress/records", s.handlePersonalRecords)

		r.Get("/bodyweight", s.handleListBodyWeight)
		r.Post("/bodyweight", s.handleLogBodyWeight)
	})

	s.router = r
}
