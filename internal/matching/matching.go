// Package matching implements the bipartite b-matching feasibility
// oracle used to determine the strongest preference guarantee a set of
// volunteers and shifts can support (spec §4.1).
package matching

import (
	"github.com/julcoh/VolunteerSortingHat/internal/core"
)

// state is the per-call working set for IsTopNMatchable: which
// volunteer (if any) currently occupies each of a shift's capacity
// "slots", and a visited-set rebuilt per outer volunteer to keep DFS
// augmentation acyclic.
type state struct {
	capacity  map[string]int
	occupants map[string][]string // shiftID -> volunteer names currently matched
	matchOf   map[string]string   // volunteer -> shiftID it holds, "" if none
	adjacency map[string][]string // volunteer -> eligible shift IDs, rank <= n
	visited   map[string]bool
}

// IsTopNMatchable reports whether every volunteer can be assigned one
// shift ranked <= n without exceeding any shift's capacity. It never
// errors; it always returns a verdict and the names left unmatched.
func IsTopNMatchable(volunteers []core.Volunteer, shifts []core.Shift, n int) (bool, []string) {
	st := &state{
		capacity:  make(map[string]int, len(shifts)),
		occupants: make(map[string][]string, len(shifts)),
		matchOf:   make(map[string]string, len(volunteers)),
		adjacency: make(map[string][]string, len(volunteers)),
	}
	for _, s := range shifts {
		st.capacity[s.ID] = s.Capacity
	}
	for _, v := range volunteers {
		for _, s := range shifts {
			if rank, ok := v.RankOf(s.ID); ok && rank <= n {
				st.adjacency[v.Name] = append(st.adjacency[v.Name], s.ID)
			}
		}
		st.matchOf[v.Name] = ""
	}

	unmatched := make([]string, 0)
	for _, v := range volunteers {
		st.visited = make(map[string]bool)
		if !st.augment(v.Name) {
			unmatched = append(unmatched, v.Name)
		}
	}
	return len(unmatched) == 0, unmatched
}

// augment attempts to find an augmenting path from volunteer, trying
// shifts in the order they were discovered (input order). A shift is
// available if its occupancy is below capacity, or if at least one of
// its current occupants can be re-routed to another eligible shift.
func (st *state) augment(volunteer string) bool {
	for _, shiftID := range st.adjacency[volunteer] {
		if st.visited[shiftID] {
			continue
		}
		st.visited[shiftID] = true

		if len(st.occupants[shiftID]) < st.capacity[shiftID] {
			st.place(volunteer, shiftID)
			return true
		}

		// Shift is at capacity: try to bump the first re-routable
		// occupant to free a slot for volunteer.
		for _, occupant := range st.occupants[shiftID] {
			if st.augment(occupant) {
				st.place(volunteer, shiftID)
				return true
			}
		}
	}
	return false
}

// place records that volunteer now holds shiftID, removing it from the
// occupants of any shift it held before (the case when a recursive
// augment call re-routes an already-matched occupant).
func (st *state) place(volunteer, shiftID string) {
	if prior := st.matchOf[volunteer]; prior != "" {
		st.removeOccupant(prior, volunteer)
	}
	st.matchOf[volunteer] = shiftID
	st.occupants[shiftID] = append(st.occupants[shiftID], volunteer)
}

func (st *state) removeOccupant(shiftID, volunteer string) {
	list := st.occupants[shiftID]
	for i, name := range list {
		if name == volunteer {
			st.occupants[shiftID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// DetectStrongestGuarantee scans n = 1, 2, ... and returns the smallest
// n for which every volunteer matches, along with the unmatched set
// observed at each attempted level. Returns 0 if no n up to
// max(maxRank, 10) achieves full matching.
func DetectStrongestGuarantee(volunteers []core.Volunteer, shifts []core.Shift) (int, map[int][]string) {
	maxRank := 0
	for _, v := range volunteers {
		for _, r := range v.Preferences {
			if r > maxRank {
				maxRank = r
			}
		}
	}
	upper := maxRank
	if upper < 10 {
		upper = 10
	}

	unmatchedByLevel := make(map[int][]string, upper)
	for n := 1; n <= upper; n++ {
		feasible, unmatched := IsTopNMatchable(volunteers, shifts, n)
		unmatchedByLevel[n] = unmatched
		if feasible {
			return n, unmatchedByLevel
		}
	}
	return 0, unmatchedByLevel
}
