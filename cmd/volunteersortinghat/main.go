// Package main is the CLI/JSON harness around the assignment core: it
// reads shifts, volunteers, and settings from stdin, scales points into
// deci-points, runs the orchestrator, and prints the result (spec §6).
package main

import (
	"context"
	"log"
	"math"

	"go.uber.org/zap"

	"github.com/nextmv-io/sdk/run"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/orchestrator"
)

func main() {
	err := run.CLI(solver).Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
}

func solver(ctx context.Context, in input, opts options) (output, error) {
	logger, err := newLogger(opts.Verbose)
	if err != nil {
		return output{}, err
	}
	defer logger.Sync() //nolint:errcheck

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	shifts := toShifts(in.Shifts)
	volunteers := toVolunteers(in.Volunteers)
	settings := toSettings(in.Settings, opts)

	result, err := orchestrator.Run(ctx, shifts, volunteers, settings, nil, logger)
	if err != nil {
		return output{}, err
	}

	return toOutput(result), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// toDeciPoints scales a half-unit point value (e.g. 2.5) into the
// integer deci-points the core operates on.
func toDeciPoints(p float64) int {
	return int(math.Round(p * 10))
}

func toShifts(in []shiftInput) []core.Shift {
	out := make([]core.Shift, 0, len(in))
	for _, s := range in {
		out = append(out, core.Shift{
			ID:       s.ID,
			Date:     core.DayKey(s.Date),
			Role:     s.Role,
			Start:    s.Start,
			End:      s.End,
			Capacity: s.Capacity,
			Points:   toDeciPoints(s.Points),
		})
	}
	return out
}

func toVolunteers(in []volunteerInput) []core.Volunteer {
	out := make([]core.Volunteer, 0, len(in))
	for _, v := range in {
		prefs := make(map[string]int, len(v.Preferences))
		for shiftID, rank := range v.Preferences {
			prefs[shiftID] = rank
		}
		out = append(out, core.Volunteer{
			Name:              v.Name,
			PreAssignedPoints: toDeciPoints(v.PreAssignedPoints),
			Preferences:       prefs,
		})
	}
	return out
}

func toSettings(in settingsInput, opts options) core.Settings {
	return core.Settings{
		MinPoints:          toDeciPoints(in.MinPoints),
		MaxOver:            toDeciPoints(in.MaxOver),
		MaxShifts:          in.MaxShifts,
		ForbidBackToBack:   in.ForbidBackToBack,
		BackToBackGapHours: in.BackToBackGapHours,
		GuaranteeLevel:     in.GuaranteeLevel,
		AllowRelaxation:    in.AllowRelaxation,
		Seed:               opts.Seed,
	}
}

func toOutput(result core.SolverResult) output {
	out := output{
		RunID:   result.RunID,
		Status:  result.Status.String(),
		Phase:   result.Phase,
		Summary: result.Summary,
	}

	for _, p := range result.Assignment.Pairs {
		out.Assignment = append(out.Assignment, assignmentOutput{Volunteer: p.Volunteer, ShiftID: p.Shift})
	}

	if result.Relaxation != nil {
		out.Relaxation = &relaxationOutput{
			Level:               string(result.Relaxation.Level),
			MinPointsMultiplier: result.Relaxation.MinPointsMultiplier,
			MaxOverMultiplier:   result.Relaxation.MaxOverMultiplier,
			MaxShiftsMultiplier: result.Relaxation.MaxShiftsMultiplier,
		}
	}

	for _, d := range result.Diagnosis {
		out.Diagnosis = append(out.Diagnosis, diagnosisOutput{
			Type:        string(d.Type),
			Description: d.Description,
			Suggestion:  d.Suggestion,
		})
	}

	if result.Metrics != nil {
		out.Metrics = &metricsOutput{
			MinAvgSatisfaction:     result.Metrics.MinAvgSatisfaction,
			MaxAvgSatisfaction:     result.Metrics.MaxAvgSatisfaction,
			MeanAvgSatisfaction:    result.Metrics.MeanAvgSatisfaction,
			StdDevAvgSatisfaction:  result.Metrics.StdDevAvgSatisfaction,
			FairnessIndex:          result.Metrics.FairnessIndex,
			PreferencePct:          result.Metrics.PreferencePct,
			EffectiveMinReachedPct: result.Metrics.EffectiveMinReachedPct,
		}
	}

	return out
}
