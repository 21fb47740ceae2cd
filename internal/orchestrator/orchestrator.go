// Package orchestrator wires the Conflict Graph Builder, Egalitarian
// Search, Hard-Fill Phase, and Infeasibility Diagnoser into the
// top-level entry point described in spec §2: egalitarian search runs
// first, hard-fill is invoked only if coverage is incomplete or the
// search found nothing, and the diagnoser runs only once both phases
// have failed.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	mip "github.com/nextmv-io/go-mip"
	"go.uber.org/zap"

	"github.com/julcoh/VolunteerSortingHat/internal/assemble"
	"github.com/julcoh/VolunteerSortingHat/internal/conflict"
	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/diagnose"
	"github.com/julcoh/VolunteerSortingHat/internal/egalitarian"
	"github.com/julcoh/VolunteerSortingHat/internal/hardfill"
	"github.com/julcoh/VolunteerSortingHat/internal/solver"
)

// defaultProbeDuration caps every single solver call. A caller deadline
// closer than this shortens the cap for that call.
const defaultProbeDuration = 30 * time.Second

// Run is the core's single entry point. shifts, volunteers, and
// settings are the caller's pre-parsed input (spec §6); provider and
// log may be nil, in which case the HiGHS backend and a no-op logger
// are used.
func Run(
	ctx context.Context,
	shifts []core.Shift,
	volunteers []core.Volunteer,
	settings core.Settings,
	provider solver.Provider,
	log *zap.Logger,
) (core.SolverResult, error) {
	if provider == nil {
		provider = solver.HighsProvider{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	runID := uuid.NewString()

	graph := conflict.Build(shifts, settings.BackToBackGapHours)
	problem, err := core.NewContext(shifts, volunteers, settings, graph)
	if err != nil {
		return core.SolverResult{}, err
	}

	if ctx.Err() != nil {
		return core.SolverResult{
			RunID:   runID,
			Status:  core.StatusTransient,
			Summary: "cancelled before any solver call was attempted",
		}, nil
	}

	probeOptions := func(_ core.Context, _ float64) mip.SolveOptions {
		return solveOptionsFor(ctx)
	}
	hardFillOptions := func(_ core.Context, _ core.Relaxation) mip.SolveOptions {
		return solveOptionsFor(ctx)
	}

	log.Info("starting egalitarian search", zap.String("run_id", runID))
	egalOutcome, egalIdx, tau, egalOk, err := egalitarian.Search(ctx, problem, provider, probeOptions, log)
	if err != nil {
		return core.SolverResult{}, err
	}

	if egalOk {
		assignment, metrics := assemble.Assemble(problem, egalOutcome.Solution, egalIdx)
		if fullyCovered(problem, assignment) {
			result := core.SolverResult{
				RunID:      runID,
				Status:     egalOutcome.Status,
				Assignment: assignment,
				Phase:      1,
				Metrics:    metrics,
			}
			result.Summary = assemble.Summarize(result.Status, result.Phase, metrics)
			log.Info("egalitarian phase covered all capacity", zap.Float64("tau", tau))
			return result, nil
		}
		log.Info("egalitarian phase left capacity unfilled, proceeding to hard-fill", zap.Float64("tau", tau))
	} else {
		log.Info("egalitarian phase found no feasible tau, proceeding to hard-fill with no seed solution")
	}

	hfResult, err := hardfill.Run(ctx, problem, provider, hardFillOptions, log)
	if err != nil {
		return core.SolverResult{}, err
	}

	if hfResult.Ok {
		assignment, metrics := assemble.Assemble(problem, hfResult.Outcome.Solution, hfResult.Index)
		result := core.SolverResult{
			RunID:      runID,
			Status:     hfResult.Outcome.Status,
			Assignment: assignment,
			Phase:      2,
			Metrics:    metrics,
		}
		if hfResult.Relaxation.Level != core.RelaxationFull {
			relaxation := hfResult.Relaxation
			result.Relaxation = &relaxation
		}
		result.Summary = assemble.Summarize(result.Status, result.Phase, metrics)
		log.Info("hard-fill phase succeeded", zap.String("level", string(hfResult.Relaxation.Level)))
		return result, nil
	}

	if ctx.Err() != nil && !egalOk {
		return core.SolverResult{
			RunID:   runID,
			Status:  core.StatusTransient,
			Phase:   2,
			Summary: "cancelled with no prior successful solve",
		}, nil
	}

	diagnosis := diagnose.Diagnose(problem)
	result := core.SolverResult{
		RunID:     runID,
		Status:    core.StatusInfeasible,
		Phase:     2,
		Diagnosis: diagnosis,
	}
	result.Summary = assemble.Summarize(result.Status, result.Phase, nil)
	log.Warn("both phases failed", zap.Int("diagnosis_count", len(diagnosis)))
	return result, nil
}

// fullyCovered reports whether every shift's roster matches its
// capacity exactly.
func fullyCovered(problem core.Context, assignment core.Assignment) bool {
	byShift := assignment.ByShift()
	for _, s := range problem.Shifts {
		if len(byShift[s.ID]) != s.Capacity {
			return false
		}
	}
	return true
}

// solveOptionsFor derives go-mip solve options from the caller's
// context. Each call is limited to defaultProbeDuration, or to the time
// left before the context's deadline when that is shorter; the limit
// applies even when the context carries no deadline.
func solveOptionsFor(ctx context.Context) mip.SolveOptions {
	duration := defaultProbeDuration
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < duration {
			duration = remaining
		}
	}

	opts := mip.SolveOptions{}
	opts.Duration = duration
	opts.Verbosity = mip.Off
	opts.MIP.Gap.Relative = 0.0
	return opts
}
