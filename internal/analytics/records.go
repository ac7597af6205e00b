package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/models"
)

// ExerciseInfo labels a personal record with display data. It never
// influences the computation itself.
type ExerciseInfo struct {
	Name        string
	MuscleGroup string
}

// WeightRecord is the heaviest set logged for an exercise.
type WeightRecord struct {
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Date   time.Time `json:"date"`
}

// VolumeRecord is the single set with the highest weight × reps.
type VolumeRecord struct {
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	Volume float64   `json:"volume"`
	Date   time.Time `json:"date"`
}

// MaxRecord is the set with the highest Epley estimate.
type MaxRecord struct {
	Weight float64   `json:"weight"`
	Reps   int       `json:"reps"`
	OneRM  float64   `json:"one_rm"`
	Date   time.Time `json:"date"`
}

// PersonalRecord carries the three independently-tracked bests for one
// exercise. The three sub-records may come from three different sets.
type PersonalRecord struct {
	ExerciseID   uuid.UUID    `json:"exercise_id"`
	ExerciseName string       `json:"exercise_name"`
	MuscleGroup  string       `json:"muscle_group"`
	BestWeight   WeightRecord `json:"best_weight"`
	BestVolume   VolumeRecord `json:"best_volume"`
	BestOneRM    MaxRecord    `json:"best_one_rm"`
}

// PersonalRecords scans completed sets across exercises and derives one
// record per exercise. Every set is a candidate (no top-N pool here, unlike
// the 1RM estimator). Each running maximum advances only on a strict
// greater-than comparison, so a tie keeps the earlier record. Output is in
// first-seen exercise order; empty input yields an empty slice.
func PersonalRecords(sets []models.LoggedSet, info map[uuid.UUID]ExerciseInfo) []PersonalRecord {
	byExercise := make(map[uuid.UUID]*PersonalRecord)
	var order []uuid.UUID

	for _, s := range sets {
		volume := s.Volume()
		oneRM := EpleyOneRM(s.Weight, s.Reps)

		pr, ok := byExercise[s.ExerciseID]
		if !ok {
			label := info[s.ExerciseID]
			pr = &PersonalRecord{
				ExerciseID:   s.ExerciseID,
				ExerciseName: label.Name,
				MuscleGroup:  label.MuscleGroup,
				BestWeight:   WeightRecord{Weight: s.Weight, Reps: s.Reps, Date: s.OccurredAt},
				BestVolume:   VolumeRecord{Weight: s.Weight, Reps: s.Reps, Volume: volume, Date: s.OccurredAt},
				BestOneRM:    MaxRecord{Weight: s.Weight, Reps: s.Reps, OneRM: oneRM, Date: s.OccurredAt},
			}
			byExercise[s.ExerciseID] = pr
			order = append(order, s.ExerciseID)
			continue
		}

		if s.Weight > pr.BestWeight.Weight {
			pr.BestWeight = WeightRecord{Weight: s.Weight, Reps: s.Reps, Date: s.OccurredAt}
		}
		if volume > pr.BestVolume.Volume {
			pr.BestVolume = VolumeRecord{Weight: s.Weight, Reps: s.Reps, Volume: volume, Date: s.OccurredAt}
		}
		if oneRM > pr.BestOneRM.OneRM {
			pr.BestOneRM = MaxRecord{Weight: s.Weight, Reps: s.Reps, OneRM: oneRM, Date: s.OccurredAt}
		}
	}

	records := make([]PersonalRecord, 0, len(order))
	for _, id := range order {
		records = append(records, *byExercise[id])
	}
	return records
}
