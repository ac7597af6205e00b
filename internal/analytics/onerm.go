// Package analytics holds the pure computations behind the progress views:
// one-rep-max estimation, volume progression, strength standards, personal
// records, and session history summaries. Every function here is a stateless
// transformation over completed sets fetched by the storage layer; nothing
// in this package performs I/O.
package analytics

import (
	"math"
	"sort"

	"github.com/meltforce/gymlog/internal/models"
)

// oneRMCandidates bounds the candidate pool for 1RM estimation: the ten
// heaviest sets, ranked by raw weight before any estimate is computed.
const oneRMCandidates = 10

// SetEstimate is the Epley estimate for a single set.
type SetEstimate struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	OneRM  float64 `json:"one_rm"`
}

// OneRepMaxResult is the estimated max for one exercise together with the
// per-set estimates that formed the candidate pool.
type OneRepMaxResult struct {
	OneRepMax    float64       `json:"one_rep_max"`
	Calculations []SetEstimate `json:"calculations"`
}

// EpleyOneRM estimates a one-rep max from a submaximal set using the Epley
// regression weight × (1 + reps/30), rounded to two decimals.
func EpleyOneRM(weight float64, reps int) float64 {
	return round2(weight * (1 + float64(reps)/30))
}

// EstimateOneRepMax computes the estimated one-rep max over a user's
// completed sets for a single exercise. The candidate pool is the ten
// heaviest sets by raw weight; estimates are computed only inside that pool,
// so a light high-rep set with a larger formula output never displaces a
// heavier set unless both rank inside the pool. Returns nil when there is
// no data, which callers must keep distinct from a computed zero.
func EstimateOneRepMax(sets []models.LoggedSet) *OneRepMaxResult {
	if len(sets) == 0 {
		return nil
	}

	pool := make([]models.LoggedSet, len(sets))
	copy(pool, sets)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Weight > pool[j].Weight
	})
	if len(pool) > oneRMCandidates {
		pool = pool[:oneRMCandidates]
	}

	calcs := make([]SetEstimate, len(pool))
	best := 0.0
	for i, s := range pool {
		est := EpleyOneRM(s.Weight, s.Reps)
		calcs[i] = SetEstimate{Weight: s.Weight, Reps: s.Reps, OneRM: est}
		if est > best {
			best = est
		}
	}

	return &OneRepMaxResult{OneRepMax: best, Calculations: calcs}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
