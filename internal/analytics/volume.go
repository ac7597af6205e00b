package analytics

import (
	"sort"
	"time"

	"github.com/meltforce/gymlog/internal/models"
)

// Timeframe selects the lookback window for volume progression and
// personal-record queries.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// Days returns the window length in days. Unknown values fall back to the
// month window, matching the API default.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeWeek:
		return 7
	case TimeframeYear:
		return 365
	default:
		return 30
	}
}

// Cutoff returns the window start relative to now.
func (t Timeframe) Cutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -t.Days())
}

// VolumePoint is the total training volume for one calendar day.
type VolumePoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	TotalVolume float64 `json:"total_volume"`
}

// volumeDay is the day-boundary rule for all volume grouping: the UTC
// calendar day of the owning session's start time.
func volumeDay(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// VolumeProgression groups completed sets by calendar day and sums
// weight × reps per day. Two sessions on the same day merge into one point.
// The result is ordered ascending by date and sparse: days without training
// are omitted, never zero-filled. Empty input yields an empty slice.
func VolumeProgression(sets []models.LoggedSet) []VolumePoint {
	byDay := make(map[string]float64)
	for _, s := range sets {
		byDay[volumeDay(s.OccurredAt)] += s.Volume()
	}

	points := make([]VolumePoint, 0, len(byDay))
	for day, vol := range byDay {
		points = append(points, VolumePoint{Date: day, TotalVolume: round2(vol)})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}
