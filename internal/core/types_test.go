package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_EffectiveMinMax(t *testing.T) {
	s := Settings{MinPoints: 100, MaxOver: 20}

	tests := []struct {
		name       string
		preAssign  int
		wantMin    int
		wantMax    int
	}{
		{"no pre-assignment", 0, 100, 120},
		{"partial pre-assignment", 40, 60, 80},
		{"pre-assignment clears the floor", 150, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Volunteer{Name: "v", PreAssignedPoints: tt.preAssign}
			assert.Equal(t, tt.wantMin, s.EffectiveMin(v))
			assert.Equal(t, tt.wantMax, s.EffectiveMax(v))
		})
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		rank int
		ok   bool
		want int
	}{
		{1, true, 5},
		{2, true, 4},
		{5, true, 1},
		{6, true, 0},
		{0, true, 0},
		{3, false, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Weight(tt.rank, tt.ok))
	}
}

func TestNewContext_DuplicateShiftID(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	shifts := []Shift{
		{ID: "s1", Date: "2026-08-01", Start: base, End: base.Add(2 * time.Hour), Capacity: 1},
		{ID: "s1", Date: "2026-08-01", Start: base, End: base.Add(2 * time.Hour), Capacity: 1},
	}
	_, err := NewContext(shifts, nil, Settings{}, ConflictGraph{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate shift id")
}

func TestNewContext_EndBeforeStart(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	shifts := []Shift{{ID: "s1", Start: base, End: base, Capacity: 1}}
	_, err := NewContext(shifts, nil, Settings{}, ConflictGraph{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end <= start")
}

func TestNewContext_ZeroCapacity(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	shifts := []Shift{{ID: "s1", Start: base, End: base.Add(time.Hour), Capacity: 0}}
	_, err := NewContext(shifts, nil, Settings{}, ConflictGraph{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity < 1")
}

func TestNewContext_UnknownShiftInPreferences(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	shifts := []Shift{{ID: "s1", Start: base, End: base.Add(time.Hour), Capacity: 1}}
	volunteers := []Volunteer{{Name: "alice", Preferences: map[string]int{"ghost": 1}}}
	_, err := NewContext(shifts, volunteers, Settings{}, ConflictGraph{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ranks unknown shift")
}

func TestNewContext_DuplicateVolunteerName(t *testing.T) {
	volunteers := []Volunteer{{Name: "alice"}, {Name: "alice"}}
	_, err := NewContext(nil, volunteers, Settings{}, ConflictGraph{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate volunteer name")
}

func TestNewContext_Valid(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	shifts := []Shift{{ID: "s1", Start: base, End: base.Add(time.Hour), Capacity: 2}}
	volunteers := []Volunteer{{Name: "alice", Preferences: map[string]int{"s1": 1}}}

	ctx, err := NewContext(shifts, volunteers, Settings{MinPoints: 10}, ConflictGraph{})
	require.NoError(t, err)
	assert.Equal(t, 1, len(ctx.Shifts))
	assert.Equal(t, 1, len(ctx.Volunteers))

	byID := ctx.ShiftByID()
	assert.Contains(t, byID, "s1")
}

func TestAssignment_Grouping(t *testing.T) {
	a := Assignment{Pairs: []VolunteerShift{
		{Volunteer: "alice", Shift: "s1"},
		{Volunteer: "alice", Shift: "s2"},
		{Volunteer: "bob", Shift: "s1"},
	}}

	assert.ElementsMatch(t, []string{"alice", "bob"}, a.ByShift()["s1"])
	assert.ElementsMatch(t, []string{"s1", "s2"}, a.ByVolunteer()["alice"])
	assert.True(t, a.Has("bob", "s1"))
	assert.False(t, a.Has("bob", "s2"))
}

func TestContext_TotalAvailablePointsAndSortedIDs(t *testing.T) {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	ctx := Context{Shifts: []Shift{
		{ID: "b", Capacity: 2, Points: 30, Start: base, End: base.Add(time.Hour)},
		{ID: "a", Capacity: 1, Points: 10, Start: base, End: base.Add(time.Hour)},
	}}
	assert.Equal(t, 70, ctx.TotalAvailablePoints())
	assert.Equal(t, []string{"a", "b"}, ctx.SortedShiftIDs())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "optimal", StatusOptimal.String())
	assert.Equal(t, "feasible", StatusFeasible.String())
	assert.Equal(t, "infeasible", StatusInfeasible.String())
	assert.Equal(t, "transient", StatusTransient.String())
	assert.Equal(t, "unknown", Status(99).String())
}
