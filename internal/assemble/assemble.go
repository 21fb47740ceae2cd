// Package assemble projects a solved MILP's decision variables back
// into assignments and computes the per-volunteer and global fairness
// metrics that make up the rest of the output contract (spec §4.9).
package assemble

import (
	"fmt"
	"sort"

	mip "github.com/nextmv-io/go-mip"
	"golang.org/x/exp/maps"
	"gonum.org/v1/gonum/stat"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/milp"
)

// valueThreshold is the primal-value cutoff used to recover the 0/1
// assignment from a (possibly fractional, post-relaxation-gap) LP
// relaxation value.
const valueThreshold = 0.5

// Assemble reads x[v,s] off solution and produces the Assignment plus
// Metrics.
func Assemble(ctx core.Context, solution mip.Solution, idx milp.VarIndex) (core.Assignment, *core.Metrics) {
	assignment := core.Assignment{}
	for _, v := range ctx.Volunteers {
		for _, s := range ctx.Shifts {
			x, ok := idx.X[milp.VarKey{Volunteer: v.Name, Shift: s.ID}]
			if !ok {
				continue
			}
			if solution.Value(x) > valueThreshold {
				assignment.Pairs = append(assignment.Pairs, core.VolunteerShift{Volunteer: v.Name, Shift: s.ID})
			}
		}
	}

	return assignment, computeMetrics(ctx, assignment)
}

func computeMetrics(ctx core.Context, assignment core.Assignment) *core.Metrics {
	byVolunteer := assignment.ByVolunteer()

	metrics := &core.Metrics{
		PerVolunteer: make(map[string]core.VolunteerMetrics, len(ctx.Volunteers)),
	}

	avgSatisfactions := make([]float64, 0, len(ctx.Volunteers))
	totalAssignments := 0
	preferenceAssignments := 0
	reachedMinCount := 0

	for _, v := range ctx.Volunteers {
		shiftIDs := byVolunteer[v.Name]
		rankHits := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
		satisfaction := 0
		points := 0

		for _, shiftID := range shiftIDs {
			rank, ok := v.RankOf(shiftID)
			satisfaction += core.Weight(rank, ok)
			if ok && rank >= 1 && rank <= 5 {
				rankHits[rank]++
				preferenceAssignments++
			}
			totalAssignments++
			for _, s := range ctx.Shifts {
				if s.ID == shiftID {
					points += s.Points
					break
				}
			}
		}

		avg := 0.0
		if len(shiftIDs) > 0 {
			avg = float64(satisfaction) / float64(len(shiftIDs))
		}
		avgSatisfactions = append(avgSatisfactions, avg)

		reachedMin := points >= ctx.Settings.EffectiveMin(v)
		if reachedMin {
			reachedMinCount++
		}

		metrics.PerVolunteer[v.Name] = core.VolunteerMetrics{
			Satisfaction:    satisfaction,
			AvgSatisfaction: avg,
			RankHits:        rankHits,
			ReachedMin:      reachedMin,
		}
	}

	if len(avgSatisfactions) > 0 {
		metrics.MeanAvgSatisfaction = stat.Mean(avgSatisfactions, nil)
		metrics.StdDevAvgSatisfaction = stat.StdDev(avgSatisfactions, nil)
		metrics.MinAvgSatisfaction, metrics.MaxAvgSatisfaction = minMax(avgSatisfactions)

		maxSatisfaction := 0
		for _, pv := range metrics.PerVolunteer {
			if pv.Satisfaction > maxSatisfaction {
				maxSatisfaction = pv.Satisfaction
			}
		}
		if maxSatisfaction > 0 {
			fairness := 1 - metrics.StdDevAvgSatisfaction/float64(maxSatisfaction)
			if fairness < 0 {
				fairness = 0
			}
			metrics.FairnessIndex = fairness
		}

		metrics.EffectiveMinReachedPct = 100 * float64(reachedMinCount) / float64(len(ctx.Volunteers))
	}

	if totalAssignments > 0 {
		metrics.PreferencePct = 100 * float64(preferenceAssignments) / float64(totalAssignments)
	}

	return metrics
}

func minMax(values []float64) (float64, float64) {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Summarize renders a one-line digest of the aggregate metrics (status,
// phase, volunteer count, min/max average satisfaction, fairness index),
// suitable for the SolverResult.Summary field. Per-volunteer values are
// not included.
func Summarize(status core.Status, phase int, metrics *core.Metrics) string {
	if metrics == nil {
		return fmt.Sprintf("status=%s phase=%d", status, phase)
	}
	names := maps.Keys(metrics.PerVolunteer)
	sort.Strings(names)
	return fmt.Sprintf(
		"status=%s phase=%d volunteers=%d min_avg=%.2f max_avg=%.2f fairness=%.3f",
		status, phase, len(names), metrics.MinAvgSatisfaction, metrics.MaxAvgSatisfaction, metrics.FairnessIndex,
	)
}
