package solver

import (
	"errors"
	"fmt"
	"testing"

	mip "github.com/nextmv-io/go-mip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

// fakeProvider lets tests control what Solve returns without touching the
// real HiGHS backend.
type fakeProvider struct {
	solution mip.Solution
	err      error
}

func (f fakeProvider) Solve(mip.Model, mip.SolveOptions) (mip.Solution, error) {
	return f.solution, f.err
}

func TestIsTransient_RecognizedPatterns(t *testing.T) {
	tests := []string{
		"runtime error: index out of range [3] with length 2",
		"fatal error: SIGABRT",
		"cgo: signature mismatch",
		"slice bounds out of range",
	}
	for _, msg := range tests {
		t.Run(msg, func(t *testing.T) {
			assert.True(t, isTransient(errors.New(msg)))
		})
	}
}

func TestIsTransient_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrTransient)
	assert.True(t, isTransient(err))
}

func TestIsTransient_UnrecognizedErrorIsNotTransient(t *testing.T) {
	assert.False(t, isTransient(errors.New("model has no objective")))
}

func TestIsTransient_NilError(t *testing.T) {
	assert.False(t, isTransient(nil))
}

func TestSolve_UnrecognizedErrorPropagates(t *testing.T) {
	provider := fakeProvider{err: errors.New("model has no objective")}
	_, err := Solve(provider, nil, mip.SolveOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model has no objective")
}

func TestSolve_TransientErrorDoesNotPropagate(t *testing.T) {
	provider := fakeProvider{err: fmt.Errorf("panic recovered: %w", ErrTransient)}
	outcome, err := Solve(provider, nil, mip.SolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, core.StatusTransient, outcome.Status)
}
