package analytics

import "github.com/meltforce/gymlog/internal/models"

// Tier is a strength-standard classification band.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierNovice       Tier = "novice"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierElite        Tier = "elite"
)

// tiersDescending is the evaluation order for classification: the highest
// tier whose threshold the max meets wins.
var tiersDescending = []Tier{TierElite, TierAdvanced, TierIntermediate, TierNovice, TierBeginner}

// StrengthStandardsResult is the tier classification for one exercise.
type StrengthStandardsResult struct {
	OneRepMax    float64          `json:"one_rep_max"`
	CurrentLevel Tier             `json:"current_level"`
	Standards    map[Tier]float64 `json:"standards"`
}

// StandardsFor derives the five tier thresholds from an estimated max.
// The table is anchored to the lifter's own current max, so classification
// against it always lands on intermediate; ClassifyTier is written against
// an arbitrary table so a population-normed one can replace this anchor.
func StandardsFor(oneRM float64) map[Tier]float64 {
	return map[Tier]float64{
		TierBeginner:     oneRM * 0.5,
		TierNovice:       oneRM * 0.75,
		TierIntermediate: oneRM * 1.0,
		TierAdvanced:     oneRM * 1.5,
		TierElite:        oneRM * 2.0,
	}
}

// ClassifyTier walks the tiers from elite down to beginner and returns the
// first whose threshold the max meets or exceeds. Falls back to beginner
// when nothing matches.
func ClassifyTier(oneRM float64, standards map[Tier]float64) Tier {
	for _, tier := range tiersDescending {
		if oneRM >= standards[tier] {
			return tier
		}
	}
	return TierBeginner
}

// ClassifyStrength classifies a user's strength on one exercise from their
// completed sets. The anchor is the single best-weight set's Epley estimate
// (the limit-1 variant of the 1RM candidate policy; first-seen wins on a
// weight tie). Returns nil when there is no data.
func ClassifyStrength(sets []models.LoggedSet) *StrengthStandardsResult {
	if len(sets) == 0 {
		return nil
	}

	best := sets[0]
	for _, s := range sets[1:] {
		if s.Weight > best.Weight {
			best = s
		}
	}

	oneRM := EpleyOneRM(best.Weight, best.Reps)
	standards := StandardsFor(oneRM)
	return &StrengthStandardsResult{
		OneRepMax:    oneRM,
		CurrentLevel: ClassifyTier(oneRM, standards),
		Standards:    standards,
	}
}
