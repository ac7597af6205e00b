package analytics

import (
	"testing"

	"github.com/meltforce/gymlog/internal/models"
)

// TestClassifyTierDeterminism verifies tier selection against a fixed
// threshold table: a max of 100 against {50,75,100,150,200} is intermediate.
func TestClassifyTierDeterminism(t *testing.T) {
	standards := map[Tier]float64{
		TierBeginner:     50,
		TierNovice:       75,
		TierIntermediate: 100,
		TierAdvanced:     150,
		TierElite:        200,
	}

	cases := []struct {
		oneRM float64
		want  Tier
	}{
		{100, TierIntermediate},
		{49, TierBeginner},
		{75, TierNovice},
		{149.99, TierIntermediate},
		{150, TierAdvanced},
		{200, TierElite},
		{500, TierElite},
	}
	for _, c := range cases {
		if got := ClassifyTier(c.oneRM, standards); got != c.want {
			t.Errorf("ClassifyTier(%v) = %q, want %q", c.oneRM, got, c.want)
		}
	}
}

// TestStandardsFor verifies the multiplicative threshold table.
func TestStandardsFor(t *testing.T) {
	standards := StandardsFor(100)
	want := map[Tier]float64{
		TierBeginner:     50,
		TierNovice:       75,
		TierIntermediate: 100,
		TierAdvanced:     150,
		TierElite:        200,
	}
	for tier, threshold := range want {
		if standards[tier] != threshold {
			t.Errorf("standards[%q] = %v, want %v", tier, standards[tier], threshold)
		}
	}
}

// TestClassifyStrengthSelfAnchored documents the legacy behavior: thresholds
// derive from the lifter's own max, so the level is always intermediate.
func TestClassifyStrengthSelfAnchored(t *testing.T) {
	res := ClassifyStrength([]models.LoggedSet{set(100, 5), set(80, 10)})
	if res == nil {
		t.Fatal("result is nil")
	}
	if res.OneRepMax != 116.67 {
		t.Errorf("OneRepMax = %v, want 116.67", res.OneRepMax)
	}
	if res.CurrentLevel != TierIntermediate {
		t.Errorf("CurrentLevel = %q, want %q", res.CurrentLevel, TierIntermediate)
	}
	if res.Standards[TierElite] != 233.34 {
		t.Errorf("standards[elite] = %v, want 233.34", res.Standards[TierElite])
	}
}

// TestClassifyStrengthBestWeightAnchor verifies the anchor is the single
// best-weight set's estimate, not the best estimate overall.
func TestClassifyStrengthBestWeightAnchor(t *testing.T) {
	// 102x1 → 105.4 is the anchor even though 100x8 → 126.67 estimates higher.
	res := ClassifyStrength([]models.LoggedSet{set(100, 8), set(102, 1)})
	if res == nil {
		t.Fatal("result is nil")
	}
	if res.OneRepMax != 105.4 {
		t.Errorf("OneRepMax = %v, want 105.4", res.OneRepMax)
	}
}

// TestClassifyStrengthEmpty verifies no data yields an absent result.
func TestClassifyStrengthEmpty(t *testing.T) {
	if res := ClassifyStrength(nil); res != nil {
		t.Errorf("ClassifyStrength(nil) = %+v, want nil", res)
	}
}
