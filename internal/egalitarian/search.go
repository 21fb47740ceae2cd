// Package egalitarian implements the maximin binary search over
// average-per-shift satisfaction (spec §4.5).
package egalitarian

import (
	"context"

	mip "github.com/nextmv-io/go-mip"
	"go.uber.org/zap"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/milp"
	"github.com/julcoh/VolunteerSortingHat/internal/solver"
)

const (
	lowStart  = 0.0
	highStart = 5.0
	tolerance = 0.1
)

// OptsFunc derives solve options for a single probe, so callers can
// shrink the time budget per call as a deadline approaches.
type OptsFunc func(problem core.Context, tau float64) mip.SolveOptions

// Search runs the binary search described in spec §4.5: while
// high-low > 0.1, probe the midpoint tau, tighten low on a feasible
// result and high on an infeasible/transient one. Returns ok=false if
// no tau in [0,5] ever produced a feasible solution. An unrecognized
// solver error is not swallowed — it propagates to the caller (§7).
func Search(
	ctx context.Context,
	problem core.Context,
	provider solver.Provider,
	opts OptsFunc,
	log *zap.Logger,
) (best solver.Outcome, bestIdx milp.VarIndex, bestTau float64, ok bool, err error) {
	low, high := lowStart, highStart

	for high-low > tolerance {
		if cerr := ctx.Err(); cerr != nil {
			if log != nil {
				log.Info("egalitarian search cancelled", zap.Error(cerr))
			}
			break
		}

		tau := (low + high) / 2
		model, idx := milp.Build(problem, milp.BuildParams{
			Phase:      milp.PhaseEgalitarian,
			Target:     tau,
			Relaxation: core.RelaxationLevels[0],
		})

		outcome, solveErr := solver.Solve(provider, model, opts(problem, tau))
		if solveErr != nil {
			return solver.Outcome{}, milp.VarIndex{}, 0, false, solveErr
		}

		if log != nil {
			log.Info("egalitarian probe",
				zap.Float64("tau", tau),
				zap.String("status", outcome.Status.String()),
			)
		}

		switch outcome.Status {
		case core.StatusOptimal, core.StatusFeasible:
			best = outcome
			bestIdx = idx
			bestTau = tau
			ok = true
			low = tau
		default:
			high = tau
		}
	}

	return best, bestIdx, bestTau, ok, nil
}
