package earnedvalue

import (
	"math"

	"github.com/iwvelando/field-forecast/pkg/constants"
)

// EarnedHours returns the hours earned by the work completed, capped at the
// full budget.
func EarnedHours(budgetedHours, percentComplete float64) float64 {
	return budgetedHours * math.Min(percentComplete, 1)
}

// PerformanceFactor returns earned / actual hours. With no actual hours it
// returns +Inf when progress was claimed and 0 when there is no data at all;
// callers must not format +Inf as a number.
func PerformanceFactor(earnedHours, actualHours float64) float64 {
	if actualHours == 0 {
		if earnedHours > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return earnedHours / actualHours
}

// ClassifyStatus buckets a performance factor into on_track, at_risk or
// over. A unit with no actual hours is not evaluated and reads on_track.
func ClassifyStatus(performanceFactor, actualHours float64) string {
	switch {
	case actualHours == 0:
		return constants.StatusOnTrack
	case performanceFactor >= constants.OnTrackPerformanceFactor:
		return constants.StatusOnTrack
	case performanceFactor >= constants.AtRiskPerformanceFactor:
		return constants.StatusAtRisk
	default:
		return constants.StatusOver
	}
}
