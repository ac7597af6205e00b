package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/analytics"
	"github.com/meltforce/gymlog/internal/models"
	"github.com/meltforce/gymlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. LocalSource (direct
// database access) and HTTPClient (remote via REST API) both satisfy it.
type DataSource interface {
	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	FindExercise(ctx context.Context, userID int, name string) (*models.Exercise, error)
	OneRepMax(ctx context.Context, userID int, exerciseID uuid.UUID) (*analytics.OneRepMaxResult, error)
	VolumeProgression(ctx context.Context, userID int, exerciseID uuid.UUID, tf analytics.Timeframe) ([]analytics.VolumePoint, error)
	StrengthStandards(ctx context.Context, userID int, exerciseID uuid.UUID) (*analytics.StrengthStandardsResult, error)
	PersonalRecords(ctx context.Context, userID int) ([]analytics.PersonalRecord, error)
	SessionHistory(ctx context.Context, userID, limit int) ([]analytics.SessionSummary, error)
}

// LocalSource runs the progress computations directly against the database,
// for the embedded MCP mode where the server and data share a process.
type LocalSource struct {
	DB *storage.DB
}

var _ DataSource = (*LocalSource)(nil)

func (s *LocalSource) ListExercises(ctx context.Context, userID int) ([]models.Exercise, error) {
	return s.DB.ListExercises(ctx, userID)
}

func (s *LocalSource) FindExercise(ctx context.Context, userID int, name string) (*models.Exercise, error) {
	return s.DB.GetExerciseByName(ctx, userID, name)
}

func (s *LocalSource) OneRepMax(ctx context.Context, userID int, exerciseID uuid.UUID) (*analytics.OneRepMaxResult, error) {
	sets, err := s.DB.CompletedSetsForExercise(ctx, userID, exerciseID, time.Time{})
	if err != nil {
		return nil, err
	}
	return analytics.EstimateOneRepMax(sets), nil
}

func (s *LocalSource) VolumeProgression(ctx context.Context, userID int, exerciseID uuid.UUID, tf analytics.Timeframe) ([]analytics.VolumePoint, error) {
	sets, err := s.DB.CompletedSetsForExercise(ctx, userID, exerciseID, tf.Cutoff(time.Now().UTC()))
	if err != nil {
		return nil, err
	}
	return analytics.VolumeProgression(sets), nil
}

func (s *LocalSource) StrengthStandards(ctx context.Context, userID int, exerciseID uuid.UUID) (*analytics.StrengthStandardsResult, error) {
	sets, err := s.DB.CompletedSetsForExercise(ctx, userID, exerciseID, time.Time{})
	if err != nil {
		return nil, err
	}
	return analytics.ClassifyStrength(sets), nil
}

func (s *LocalSource) PersonalRecords(ctx context.Context, userID int) ([]analytics.PersonalRecord, error) {
	sets, err := s.DB.CompletedSets(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	exercises, err := s.DB.ExerciseInfoMap(ctx, storage.ExerciseIDsIn(sets))
	if err != nil {
		return nil, err
	}
	info := make(map[uuid.UUID]analytics.ExerciseInfo, len(exercises))
	for id, ex := range exercises {
		info[id] = analytics.ExerciseInfo{Name: ex.Name, MuscleGroup: ex.MuscleGroup}
	}
	return analytics.PersonalRecords(sets, info), nil
}

func (s *LocalSource) SessionHistory(ctx context.Context, userID, limit int) ([]analytics.SessionSummary, error) {
	sessions, exercises, err := s.DB.RecentCompletedSessions(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return analytics.SummarizeSessions(sessions, exercises), nil
}
