package diagnose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

func mkShift(id string, date core.DayKey, start, end time.Time, capacity, points int) core.Shift {
	return core.Shift{ID: id, Date: date, Start: start, End: end, Capacity: capacity, Points: points}
}

func TestDiagnose_CapacityExcess(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shifts := []core.Shift{mkShift("s1", "2026-08-01", base, base.Add(time.Hour), 5, 10)}
	volunteers := []core.Volunteer{{Name: "alice"}}
	ctx, err := core.NewContext(shifts, volunteers, core.Settings{MaxShifts: 1, MinPoints: 0}, core.ConflictGraph{})
	require.NoError(t, err)

	diagnoses := Diagnose(ctx)
	assert.True(t, hasType(diagnoses, core.DiagCapacityExcess))
}

func TestDiagnose_PointsShortage(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shifts := []core.Shift{mkShift("s1", "2026-08-01", base, base.Add(time.Hour), 1, 10)}
	volunteers := []core.Volunteer{{Name: "alice"}}
	ctx, err := core.NewContext(shifts, volunteers, core.Settings{MaxShifts: 5, MinPoints: 1000}, core.ConflictGraph{})
	require.NoError(t, err)

	diagnoses := Diagnose(ctx)
	assert.True(t, hasType(diagnoses, core.DiagPointsShortage))
}

func TestDiagnose_PointsExcess(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shifts := []core.Shift{mkShift("s1", "2026-08-01", base, base.Add(time.Hour), 10, 1000)}
	volunteers := []core.Volunteer{{Name: "alice"}}
	ctx, err := core.NewContext(shifts, volunteers, core.Settings{MaxShifts: 20, MinPoints: 1, MaxOver: 1}, core.ConflictGraph{})
	require.NoError(t, err)

	diagnoses := Diagnose(ctx)
	assert.True(t, hasType(diagnoses, core.DiagPointsExcess))
}

func TestDiagnose_ConcurrentOverlap(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shifts := []core.Shift{
		mkShift("s1", "2026-08-01", base, base.Add(2*time.Hour), 3, 10),
		mkShift("s2", "2026-08-01", base, base.Add(2*time.Hour), 3, 10),
	}
	volunteers := []core.Volunteer{{Name: "alice"}, {Name: "bob"}}
	ctx, err := core.NewContext(shifts, volunteers, core.Settings{MaxShifts: 10}, core.ConflictGraph{})
	require.NoError(t, err)

	diagnoses := Diagnose(ctx)
	assert.True(t, hasType(diagnoses, core.DiagConcurrentOverlap))
}

func TestDiagnose_GuaranteeImpossible(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shifts := []core.Shift{mkShift("s1", "2026-08-01", base, base.Add(time.Hour), 1, 10)}
	volunteers := []core.Volunteer{
		{Name: "alice", Preferences: map[string]int{"s1": 5}},
	}
	ctx, err := core.NewContext(shifts, volunteers, core.Settings{MaxShifts: 5, GuaranteeLevel: 2}, core.ConflictGraph{})
	require.NoError(t, err)

	diagnoses := Diagnose(ctx)
	require.True(t, hasType(diagnoses, core.DiagGuaranteeImpossible))
	for _, d := range diagnoses {
		if d.Type == core.DiagGuaranteeImpossible {
			assert.Contains(t, d.Description, "alice")
		}
	}
}

func TestDiagnose_NoIssuesWhenWellFormed(t *testing.T) {
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	shifts := []core.Shift{
		mkShift("s1", "2026-08-01", base, base.Add(time.Hour), 1, 40),
		mkShift("s2", "2026-08-01", base.Add(2*time.Hour), base.Add(3*time.Hour), 1, 40),
	}
	volunteers := []core.Volunteer{
		{Name: "alice", Preferences: map[string]int{"s1": 1}},
		{Name: "bob", Preferences: map[string]int{"s2": 1}},
	}
	ctx, err := core.NewContext(shifts, volunteers, core.Settings{MaxShifts: 2, MinPoints: 20, MaxOver: 40}, core.ConflictGraph{})
	require.NoError(t, err)

	diagnoses := Diagnose(ctx)
	assert.Empty(t, diagnoses)
}

func hasType(diagnoses []core.Diagnosis, want core.DiagnosisType) bool {
	for _, d := range diagnoses {
		if d.Type == want {
			return true
		}
	}
	return false
}
