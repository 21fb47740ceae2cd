// Package detect implements the data-driven setting auto-detector
// (spec §4.2): given raw shifts and volunteers, it recommends workload,
// shift-count, and guarantee-level settings, plus the allowed range for
// each, so a caller (or a UI layer) can validate user overrides.
package detect

import (
	"math"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/matching"
)

// Recommendation is the detector's suggested Settings fields. Values
// that map onto Settings are in deci-points, matching core.Settings.
type Recommendation struct {
	MinPoints      int
	MaxOver        int
	MaxShifts      int
	GuaranteeLevel int
}

// Range is an inclusive [Min, Max] bound on a single settings field.
type Range struct {
	Min, Max int
}

// Bounds holds the allowed range for each detected field, used by
// downstream validators when a caller wants to override the
// recommendation.
type Bounds struct {
	MinPoints      Range
	MaxOver        Range
	MaxShifts      Range
	GuaranteeLevel Range
}

// recommendedMaxOverDeciPoints is 1.5 points in deci-point units.
const recommendedMaxOverDeciPoints = 15

// Detect computes the recommendation and bounds described in spec §4.2.
func Detect(volunteers []core.Volunteer, shifts []core.Shift) (Recommendation, Bounds) {
	numVols := len(volunteers)
	numShifts := len(shifts)

	totalAvailable := 0
	totalCapacity := 0
	minShiftPoints := 0
	for _, s := range shifts {
		totalAvailable += s.Capacity * s.Points
		totalCapacity += s.Capacity
		if s.Points > 0 && (minShiftPoints == 0 || s.Points < minShiftPoints) {
			minShiftPoints = s.Points
		}
	}

	rec := Recommendation{}
	bounds := Bounds{}

	if numVols == 0 {
		return rec, bounds
	}

	fairShare := float64(totalAvailable) / float64(numVols)
	rec.MinPoints = floorToHalf(0.85 * fairShare)
	rec.MaxOver = recommendedMaxOverDeciPoints

	avgShifts := float64(totalCapacity) / float64(numVols)
	maxPtsPerPerson := rec.MinPoints + rec.MaxOver

	candidates := []int{
		int(math.Ceil(avgShifts)) + 3,
		int(math.Ceil(float64(numShifts)/float64(numVols))) + 3,
	}
	if minShiftPoints > 0 {
		candidates = append(candidates, int(math.Ceil(float64(maxPtsPerPerson)/float64(minShiftPoints)))+2)
	}
	rec.MaxShifts = candidates[0]
	for _, c := range candidates[1:] {
		if c > rec.MaxShifts {
			rec.MaxShifts = c
		}
	}

	if level, _ := matching.DetectStrongestGuarantee(volunteers, shifts); level >= 1 {
		rec.GuaranteeLevel = maxInt(level, 5)
	} else {
		rec.GuaranteeLevel = 0
	}

	bounds.MinPoints = Range{Min: 0, Max: int(math.Floor(fairShare))}
	bounds.MaxOver = Range{Min: 0, Max: int(math.Ceil(fairShare))}
	bounds.MaxShifts = Range{Min: 1, Max: maxInt(numShifts, 1)}
	maxRank := 0
	for _, v := range volunteers {
		for _, r := range v.Preferences {
			if r > maxRank {
				maxRank = r
			}
		}
	}
	bounds.GuaranteeLevel = Range{Min: 0, Max: maxInt(maxRank, 10)}

	return rec, bounds
}

// floorToHalf rounds a deci-point-scaled value down to the nearest
// half-point (5 deci-points), mirroring the source's half-unit
// granularity for points.
func floorToHalf(deciPoints float64) int {
	return int(math.Floor(deciPoints/5.0)) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
