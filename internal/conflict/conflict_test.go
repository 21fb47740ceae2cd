package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

func shiftAt(id string, date core.DayKey, startHour, endHour int) core.Shift {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return core.Shift{
		ID:    id,
		Date:  date,
		Start: base.Add(time.Duration(startHour) * time.Hour),
		End:   base.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestBuild_OverlapPair(t *testing.T) {
	shifts := []core.Shift{
		shiftAt("morning", "2026-08-01", 8, 12),
		shiftAt("late-morning", "2026-08-01", 10, 14),
	}
	graph := Build(shifts, 1.0)
	assert.Equal(t, []core.UnorderedPair{{A: "late-morning", B: "morning"}}, graph.OverlapPairs)
}

func TestBuild_NoOverlapAcrossDates(t *testing.T) {
	shifts := []core.Shift{
		shiftAt("a", "2026-08-01", 8, 12),
		shiftAt("b", "2026-08-02", 8, 12),
	}
	graph := Build(shifts, 1.0)
	assert.Empty(t, graph.OverlapPairs)
	assert.Empty(t, graph.SequentialPairs)
}

func TestBuild_SequentialPair(t *testing.T) {
	shifts := []core.Shift{
		shiftAt("morning", "2026-08-01", 8, 12),
		shiftAt("afternoon", "2026-08-01", 13, 17),
	}
	graph := Build(shifts, 2.0)
	assert.Contains(t, graph.SequentialPairs, core.DirectedPair{From: "morning", To: "afternoon"})
}

func TestBuild_GapTooLargeIsNotSequential(t *testing.T) {
	shifts := []core.Shift{
		shiftAt("morning", "2026-08-01", 8, 12),
		shiftAt("evening", "2026-08-01", 18, 20),
	}
	graph := Build(shifts, 1.0)
	assert.Empty(t, graph.SequentialPairs)
}

func TestBuild_BackToBackNotOverlap(t *testing.T) {
	shifts := []core.Shift{
		shiftAt("morning", "2026-08-01", 8, 12),
		shiftAt("afternoon", "2026-08-01", 12, 16),
	}
	graph := Build(shifts, 1.0)
	assert.Empty(t, graph.OverlapPairs)
	assert.Contains(t, graph.SequentialPairs, core.DirectedPair{From: "morning", To: "afternoon"})
}
