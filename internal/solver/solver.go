// Package solver wraps a MILP solver behind a small Provider interface
// and normalizes its outcome to the spec's Optimal/Feasible/Infeasible/
// Transient taxonomy (spec §4.8, §7). The default Provider is
// github.com/nextmv-io/go-highs; Provider is an interface specifically
// so the backend can be swapped (§9 design notes).
package solver

import (
	"errors"
	"fmt"
	"strings"

	highs "github.com/nextmv-io/go-highs"
	mip "github.com/nextmv-io/go-mip"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

// Provider solves a go-mip model and returns its raw solution. The only
// abstraction boundary in the pipeline: swap this to point at a
// different backing solver without touching the model builder.
type Provider interface {
	Solve(model mip.Model, opts mip.SolveOptions) (mip.Solution, error)
}

// HighsProvider is the default Provider, backed by HiGHS.
type HighsProvider struct{}

// Solve implements Provider.
func (HighsProvider) Solve(model mip.Model, opts mip.SolveOptions) (solution mip.Solution, err error) {
	// HiGHS is known to occasionally panic with an internal index
	// assertion or abort signal on pathological models rather than
	// return an error; that failure mode is recognized here and
	// reported as Transient instead of crashing the caller (spec §7,
	// §4.8 — "certain solver-internal crashes ... map to Infeasible"
	// would discard the distinction the spec wants logged, so crashes
	// specifically surface as Transient).
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTransient, r)
		}
	}()

	s := highs.NewSolver(model)
	return s.Solve(opts)
}

// ErrTransient marks a recognized flaky solver failure.
var ErrTransient = fmt.Errorf("solver: transient failure")

// Outcome is the normalized result of one solver invocation.
type Outcome struct {
	Status   core.Status
	Solution mip.Solution
}

// Solve invokes provider on model and classifies the result. Unknown
// errors (anything that is not a recognized transient pattern) are
// propagated to the caller rather than swallowed — silently absorbing a
// novel failure mode would hide a real regression (spec §7).
func Solve(provider Provider, model mip.Model, opts mip.SolveOptions) (Outcome, error) {
	solution, err := provider.Solve(model, opts)
	if err != nil {
		if isTransient(err) {
			return Outcome{Status: core.StatusTransient}, nil
		}
		return Outcome{}, err
	}

	if solution == nil || !solution.HasValues() {
		return Outcome{Status: core.StatusInfeasible}, nil
	}
	if solution.IsOptimal() {
		return Outcome{Status: core.StatusOptimal, Solution: solution}, nil
	}
	if solution.IsSubOptimal() {
		return Outcome{Status: core.StatusFeasible, Solution: solution}, nil
	}
	return Outcome{Status: core.StatusInfeasible}, nil
}

// isTransient recognizes the backing solver's known-flaky error
// signatures: out-of-bounds indexing, abort signals, and the sentinel
// this package's own Provider wraps panics into.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransient) {
		return true
	}
	msg := err.Error()
	for _, pattern := range []string{
		"index out of range",
		"slice bounds out of range",
		"SIGABRT",
		"signature mismatch",
		"out of bounds",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
