// Package conflict builds the pair structures derived from shift
// timing: same-date overlaps and same-date sequential (back-to-back)
// pairs (spec §4.3). Build is a pure function of its shift slice.
package conflict

import (
	"time"

	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

// Build enumerates overlap_pairs and sequential_pairs among shifts that
// share a date. Every ordered pair of shifts is compared, so complexity
// is quadratic in the total number of shifts, which is acceptable at the sizes this core targets (spec
// §4.3, §5).
func Build(shifts []core.Shift, gapHours float64) core.ConflictGraph {
	gap := time.Duration(gapHours * float64(time.Hour))

	graph := core.ConflictGraph{}
	for i, a := range shifts {
		for j, b := range shifts {
			if i == j || a.Date != b.Date {
				continue
			}

			if a.Start.Before(b.End) && b.Start.Before(a.End) {
				if a.ID < b.ID {
					graph.OverlapPairs = append(graph.OverlapPairs, core.UnorderedPair{A: a.ID, B: b.ID})
				}
			}

			gapBetween := b.Start.Sub(a.End)
			if gapBetween >= 0 && gapBetween <= gap {
				graph.SequentialPairs = append(graph.SequentialPairs, core.DirectedPair{From: a.ID, To: b.ID})
			}
		}
	}
	return graph
}
