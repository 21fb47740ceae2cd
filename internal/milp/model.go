// Package milp translates a (shifts, volunteers, settings, target,
// phase, relaxation) tuple into a Mixed Integer Linear Program, using
// github.com/nextmv-io/go-mip as the modeling layer (spec §4.4). All
// points arithmetic is already integer deci-points by the time it
// reaches this package (the ×10 scaling happens once, at input
// ingestion) so every coefficient below is exact.
package milp

import (
	"fmt"

	mip "github.com/nextmv-io/go-mip"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
	"github.com/julcoh/VolunteerSortingHat/internal/rng"
)

// Phase selects which variant of the model to build.
type Phase int

const (
	// PhaseEgalitarian builds the maximin binary-search model (§4.5):
	// capacity is an upper bound and the per-volunteer average
	// satisfaction constraint is present.
	PhaseEgalitarian Phase = iota
	// PhaseHardFill builds the exact-capacity-fill model (§4.6):
	// capacity is an equality and workload bounds may be relaxed.
	PhaseHardFill
)

// sequentialPenalty is P_seq from §4.4.
const sequentialPenalty = 100000.0

// steppedReward is the hard-fill objective's reward table, indexed by
// rank 1..5. Unranked shifts and ranks above 5 have no entry;
// addObjective gives them a reward of 1.
var steppedReward = map[int]float64{1: 500, 2: 300, 3: 200, 4: 100, 5: 50}

// BuildParams parameterizes a single model-builder invocation.
type BuildParams struct {
	Phase Phase
	// Target is tau, the egalitarian search's current average-
	// satisfaction threshold. Ignored when Phase is PhaseHardFill.
	Target float64
	// Relaxation carries the workload-bound multipliers in effect.
	// Callers in PhaseEgalitarian pass core.RelaxationLevels[0] (the
	// identity multipliers); hard-fill callers pass the level under
	// trial.
	Relaxation core.Relaxation
}

// VarKey identifies an x[v,s] decision variable.
type VarKey struct {
	Volunteer string
	Shift     string
}

// SeqVarKey identifies a y[v,(a,b)] soft-penalty indicator.
type SeqVarKey struct {
	Volunteer string
	Pair      core.DirectedPair
}

// VarIndex maps model keys to the go-mip decision variables created for
// them, so the result assembler can read back primal values.
type VarIndex struct {
	X map[VarKey]mip.Bool
	Y map[SeqVarKey]mip.Bool
}

// Build constructs the MILP for ctx under params. The returned model is
// ready to hand to the solver adapter.
func Build(ctx core.Context, params BuildParams) (mip.Model, VarIndex) {
	m := mip.NewModel()
	m.Objective().SetMinimize()

	idx := VarIndex{
		X: make(map[VarKey]mip.Bool, len(ctx.Volunteers)*len(ctx.Shifts)),
		Y: make(map[SeqVarKey]mip.Bool),
	}

	for _, v := range ctx.Volunteers {
		for _, s := range ctx.Shifts {
			idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}] = m.NewBool()
		}
	}

	if !ctx.Settings.ForbidBackToBack {
		for _, v := range ctx.Volunteers {
			for _, pair := range ctx.Graph.SequentialPairs {
				idx.Y[SeqVarKey{Volunteer: v.Name, Pair: pair}] = m.NewBool()
			}
		}
	}

	addObjective(m, ctx, params, idx)
	addCapacityConstraints(m, ctx, params, idx)
	addWorkloadConstraints(m, ctx, params, idx)
	addShiftCountConstraints(m, ctx, params, idx)
	addAssignmentMinimumConstraints(m, ctx, idx)
	addGuaranteeConstraints(m, ctx, idx)
	addOverlapConstraints(m, ctx, idx)
	addBackToBackConstraints(m, ctx, idx)
	if params.Phase == PhaseEgalitarian {
		addMaximinConstraints(m, ctx, params.Target, idx)
	}

	return m, idx
}

func addObjective(m mip.Model, ctx core.Context, params BuildParams, idx VarIndex) {
	var jitter *rng.LCG
	if params.Phase == PhaseHardFill {
		jitter = rng.New(ctx.Settings.Seed)
	}

	for _, v := range ctx.Volunteers {
		for _, s := range ctx.Shifts {
			x := idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}]
			rank, ok := v.RankOf(s.ID)

			var coef float64
			switch params.Phase {
			case PhaseEgalitarian:
				coef = -float64(core.Weight(rank, ok))
			case PhaseHardFill:
				reward, known := steppedReward[rank]
				if !ok || !known {
					reward = 1
				}
				coef = -(reward + float64(jitter.Jitter(10)))
			}
			if coef != 0 {
				m.Objective().NewTerm(coef, x)
			}
		}
	}

	for _, y := range idx.Y {
		m.Objective().NewTerm(sequentialPenalty, y)
	}
}

func addCapacityConstraints(m mip.Model, ctx core.Context, params BuildParams, idx VarIndex) {
	sense := mip.LessThanOrEqual
	if params.Phase == PhaseHardFill {
		sense = mip.Equal
	}
	for _, s := range ctx.Shifts {
		constraint := m.NewConstraint(sense, float64(s.Capacity))
		for _, v := range ctx.Volunteers {
			constraint.NewTerm(1.0, idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}])
		}
	}
}

func addWorkloadConstraints(m mip.Model, ctx core.Context, params BuildParams, idx VarIndex) {
	floorMult := params.Relaxation.MinPointsMultiplier
	ceilMult := params.Relaxation.MaxOverMultiplier

	for _, v := range ctx.Volunteers {
		effMin := float64(ctx.Settings.EffectiveMin(v)) * floorMult
		effMax := float64(ctx.Settings.EffectiveMax(v)) * ceilMult

		floor := m.NewConstraint(mip.GreaterThanOrEqual, effMin)
		ceiling := m.NewConstraint(mip.LessThanOrEqual, effMax)
		for _, s := range ctx.Shifts {
			x := idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}]
			if s.Points != 0 {
				floor.NewTerm(float64(s.Points), x)
				ceiling.NewTerm(float64(s.Points), x)
			}
		}
	}
}

func addShiftCountConstraints(m mip.Model, ctx core.Context, params BuildParams, idx VarIndex) {
	limit := float64(ctx.Settings.MaxShifts) * params.Relaxation.MaxShiftsMultiplier

	for _, v := range ctx.Volunteers {
		constraint := m.NewConstraint(mip.LessThanOrEqual, limit)
		for _, s := range ctx.Shifts {
			constraint.NewTerm(1.0, idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}])
		}
	}
}

func addAssignmentMinimumConstraints(m mip.Model, ctx core.Context, idx VarIndex) {
	for _, v := range ctx.Volunteers {
		constraint := m.NewConstraint(mip.GreaterThanOrEqual, 1.0)
		for _, s := range ctx.Shifts {
			constraint.NewTerm(1.0, idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}])
		}
	}
}

func addGuaranteeConstraints(m mip.Model, ctx core.Context, idx VarIndex) {
	if ctx.Settings.GuaranteeLevel <= 0 {
		return
	}
	for _, v := range ctx.Volunteers {
		eligible := make([]string, 0)
		for _, s := range ctx.Shifts {
			if rank, ok := v.RankOf(s.ID); ok && rank <= ctx.Settings.GuaranteeLevel {
				eligible = append(eligible, s.ID)
			}
		}
		if len(eligible) == 0 {
			// No eligible shift: fall back to the assignment-minimum
			// constraint already present, per spec §4.4.
			continue
		}
		constraint := m.NewConstraint(mip.GreaterThanOrEqual, 1.0)
		for _, shiftID := range eligible {
			constraint.NewTerm(1.0, idx.X[VarKey{Volunteer: v.Name, Shift: shiftID}])
		}
	}
}

func addOverlapConstraints(m mip.Model, ctx core.Context, idx VarIndex) {
	for _, pair := range ctx.Graph.OverlapPairs {
		for _, v := range ctx.Volunteers {
			constraint := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			constraint.NewTerm(1.0, idx.X[VarKey{Volunteer: v.Name, Shift: pair.A}])
			constraint.NewTerm(1.0, idx.X[VarKey{Volunteer: v.Name, Shift: pair.B}])
		}
	}
}

func addBackToBackConstraints(m mip.Model, ctx core.Context, idx VarIndex) {
	for _, pair := range ctx.Graph.SequentialPairs {
		for _, v := range ctx.Volunteers {
			xa := idx.X[VarKey{Volunteer: v.Name, Shift: pair.From}]
			xb := idx.X[VarKey{Volunteer: v.Name, Shift: pair.To}]
			if ctx.Settings.ForbidBackToBack {
				constraint := m.NewConstraint(mip.LessThanOrEqual, 1.0)
				constraint.NewTerm(1.0, xa)
				constraint.NewTerm(1.0, xb)
				continue
			}
			y := idx.Y[SeqVarKey{Volunteer: v.Name, Pair: pair}]
			constraint := m.NewConstraint(mip.LessThanOrEqual, 1.0)
			constraint.NewTerm(1.0, xa)
			constraint.NewTerm(1.0, xb)
			constraint.NewTerm(-1.0, y)
		}
	}
}

func addMaximinConstraints(m mip.Model, ctx core.Context, tau float64, idx VarIndex) {
	for _, v := range ctx.Volunteers {
		constraint := m.NewConstraint(mip.GreaterThanOrEqual, 0.0)
		for _, s := range ctx.Shifts {
			rank, ok := v.RankOf(s.ID)
			coef := float64(core.Weight(rank, ok)) - tau
			if coef != 0 {
				constraint.NewTerm(coef, idx.X[VarKey{Volunteer: v.Name, Shift: s.ID}])
			}
		}
	}
}

// Describe renders a short human-readable summary of the model's size,
// useful in structured log lines around each solver call.
func Describe(ctx core.Context, params BuildParams) string {
	phase := "egalitarian"
	if params.Phase == PhaseHardFill {
		phase = "hard-fill"
	}
	return fmt.Sprintf(
		"phase=%s volunteers=%d shifts=%d overlap_pairs=%d sequential_pairs=%d",
		phase, len(ctx.Volunteers), len(ctx.Shifts),
		len(ctx.Graph.OverlapPairs), len(ctx.Graph.SequentialPairs),
	)
}
