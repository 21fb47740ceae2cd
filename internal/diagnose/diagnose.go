// Package diagnose implements the infeasibility diagnoser: a set of
// heuristic structural checks over the input and settings that explain,
// in human terms, why no assignment could be found (spec §4.7).
package diagnose

import (
	"fmt"
	"sort"
	"time"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

// Diagnose runs every rule in spec §4.7 against ctx and returns the
// list of causes that actually trigger. Soundness, not completeness: a
// returned diagnosis always corresponds to a property that genuinely
// holds, but the list may omit causes the rules don't model.
func Diagnose(ctx core.Context) []core.Diagnosis {
	var out []core.Diagnosis

	numVols := len(ctx.Volunteers)
	numShifts := len(ctx.Shifts)

	totalCapacity := 0
	totalAvailablePoints := 0
	for _, s := range ctx.Shifts {
		totalCapacity += s.Capacity
		totalAvailablePoints += s.Capacity * s.Points
	}

	totalEffectiveMin := 0
	totalEffectiveMinPlusOver := 0
	for _, v := range ctx.Volunteers {
		totalEffectiveMin += ctx.Settings.EffectiveMin(v)
		totalEffectiveMinPlusOver += ctx.Settings.EffectiveMax(v)
	}

	if totalCapacity > numVols*ctx.Settings.MaxShifts {
		out = append(out, core.Diagnosis{
			Type: core.DiagCapacityExcess,
			Description: fmt.Sprintf(
				"total shift capacity (%d) exceeds volunteers * max_shifts (%d * %d = %d)",
				totalCapacity, numVols, ctx.Settings.MaxShifts, numVols*ctx.Settings.MaxShifts,
			),
			Suggestion: "Add volunteers / raise max_shifts / lower capacities.",
		})
	}

	if totalAvailablePoints < totalEffectiveMin {
		out = append(out, core.Diagnosis{
			Type: core.DiagPointsShortage,
			Description: fmt.Sprintf(
				"total available points (%d) fall short of required minimum points (%d) by %d",
				totalAvailablePoints, totalEffectiveMin, totalEffectiveMin-totalAvailablePoints,
			),
			Suggestion: "Lower min_points or raise points / capacities.",
		})
	}

	if float64(totalAvailablePoints) > 1.5*float64(totalEffectiveMinPlusOver) {
		out = append(out, core.Diagnosis{
			Type: core.DiagPointsExcess,
			Description: fmt.Sprintf(
				"total available points (%d) exceed 1.5x the total workload ceiling (%d)",
				totalAvailablePoints, totalEffectiveMinPlusOver,
			),
			Suggestion: "Raise max_over / add volunteers / lower points.",
		})
	}

	if peak := peakConcurrentCapacity(ctx.Shifts); peak > numVols {
		out = append(out, core.Diagnosis{
			Type: core.DiagConcurrentOverlap,
			Description: fmt.Sprintf(
				"peak concurrent capacity demand (%d) exceeds the number of volunteers (%d)",
				peak, numVols,
			),
			Suggestion: "Stagger shifts / add volunteers.",
		})
	}

	if ctx.Settings.ForbidBackToBack && numShifts > 0 {
		ratio := 2.0 * float64(len(ctx.Graph.SequentialPairs)) / float64(numShifts)
		if ratio > 2.0 {
			out = append(out, core.Diagnosis{
				Type: core.DiagBackToBackTight,
				Description: fmt.Sprintf(
					"sequential-pair density (%.2f) is too high to forbid back-to-back assignments",
					ratio,
				),
				Suggestion: "Switch to \"minimize\" mode.",
			})
		}
	}

	if ctx.Settings.GuaranteeLevel > 0 {
		var impossible []string
		for _, v := range ctx.Volunteers {
			if !hasEligibleShift(v, ctx.Shifts, ctx.Settings.GuaranteeLevel) {
				impossible = append(impossible, v.Name)
			}
		}
		if len(impossible) > 0 {
			sort.Strings(impossible)
			out = append(out, core.Diagnosis{
				Type: core.DiagGuaranteeImpossible,
				Description: fmt.Sprintf(
					"volunteers with no shift ranked <= %d: %v",
					ctx.Settings.GuaranteeLevel, impossible,
				),
				Suggestion: "Lower guarantee level.",
			})
		}

		bottlenecked := 0
		for _, v := range ctx.Volunteers {
			if eligibleCapacity(v, ctx.Shifts, ctx.Settings.GuaranteeLevel) <= 2 {
				bottlenecked++
			}
		}
		if bottlenecked > 5 {
			out = append(out, core.Diagnosis{
				Type: core.DiagGuaranteeBottleneck,
				Description: fmt.Sprintf(
					"%d volunteers have <= 2 total capacity among their top-%d preferences",
					bottlenecked, ctx.Settings.GuaranteeLevel,
				),
				Suggestion: "Diversify preferences or lower guarantee.",
			})
		}
	}

	return out
}

// hasEligibleShift reports whether v ranks any shift at or below level.
func hasEligibleShift(v core.Volunteer, shifts []core.Shift, level int) bool {
	for _, s := range shifts {
		if rank, ok := v.RankOf(s.ID); ok && rank <= level {
			return true
		}
	}
	return false
}

// eligibleCapacity sums the capacity of shifts v ranks at or below
// level.
func eligibleCapacity(v core.Volunteer, shifts []core.Shift, level int) int {
	total := 0
	for _, s := range shifts {
		if rank, ok := v.RankOf(s.ID); ok && rank <= level {
			total += s.Capacity
		}
	}
	return total
}

// event is one endpoint of a shift's capacity interval.
type event struct {
	at    time.Time
	delta int
}

// peakConcurrentCapacity runs the canonical scanline algorithm over
// shift start/end events to find the maximum simultaneous capacity
// demand. Ties at the same timestamp process shift-ends before
// shift-starts, so a shift that ends exactly when another begins is not
// counted as concurrent with it.
func peakConcurrentCapacity(shifts []core.Shift) int {
	events := make([]event, 0, len(shifts)*2)
	for _, s := range shifts {
		events = append(events, event{at: s.Start, delta: s.Capacity})
		events = append(events, event{at: s.End, delta: -s.Capacity})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].delta < events[j].delta
	})

	running, peak := 0, 0
	for _, e := range events {
		running += e.delta
		if running > peak {
			peak = running
		}
	}
	return peak
}
