// Package hardfill implements the exact-capacity-fill phase with
// progressive relaxation of workload bounds (spec §4.6).
package hardfill

import (
	"context"

	mip "github.com/nextmv-io/go-mip"
	"go.uber.org/zap"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/milp"
	"github.com/julcoh/VolunteerSortingHat/internal/solver"
)

// OptsFunc derives solve options for a single hard-fill attempt.
type OptsFunc func(problem core.Context, level core.Relaxation) mip.SolveOptions

// Result is the outcome of the hard-fill phase.
type Result struct {
	Outcome    solver.Outcome
	Index      milp.VarIndex
	Relaxation core.Relaxation
	Ok         bool
}

// Run attempts core.RelaxationLevels in order. Only the first level is
// attempted unless problem.Settings.AllowRelaxation is true. The first
// level that returns Optimal or Feasible wins.
func Run(
	ctx context.Context,
	problem core.Context,
	provider solver.Provider,
	opts OptsFunc,
	log *zap.Logger,
) (Result, error) {
	for i, level := range core.RelaxationLevels {
		if i > 0 && !problem.Settings.AllowRelaxation {
			break
		}
		if err := ctx.Err(); err != nil {
			if log != nil {
				log.Info("hard-fill cancelled", zap.Error(err))
			}
			return Result{}, nil
		}

		model, idx := milp.Build(problem, milp.BuildParams{
			Phase:      milp.PhaseHardFill,
			Relaxation: level,
		})

		outcome, err := solver.Solve(provider, model, opts(problem, level))
		if err != nil {
			return Result{}, err
		}

		if log != nil {
			log.Info("hard-fill attempt",
				zap.String("level", string(level.Level)),
				zap.String("status", outcome.Status.String()),
			)
		}

		switch outcome.Status {
		case core.StatusOptimal, core.StatusFeasible:
			return Result{Outcome: outcome, Index: idx, Relaxation: level, Ok: true}, nil
		}
	}

	return Result{}, nil
}
