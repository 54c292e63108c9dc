package domain

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// OrderCandidates fixes the rotation ordering: territory priority descending,
// then agency ID ascending as a deterministic tiebreak. Overlapping ownership
// of the same territory is resolved here by priority, not by match order.
// A candidate appearing through multiple matched territories keeps only its
// highest-priority entry.
func OrderCandidates(candidates []Candidate) []Candidate {
	best := make(map[uuid.UUID]Candidate, len(candidates))
	for _, c := range candidates {
		existing, seen := best[c.AgencyID]
		if !seen || c.Priority > existing.Priority {
			best[c.AgencyID] = c
		}
	}

	ordered := make([]Candidate, 0, len(best))
	for _, c := range best {
		ordered = append(ordered, c)
	}

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return strings.Compare(ordered[i].AgencyID.String(), ordered[j].AgencyID.String()) < 0
	})
	return ordered
}

// SelectNext picks one agency from the candidate set using the persisted
// cursor state. Candidates are put in the fixed rotation order, then the
// candidate strictly after the cursor's last-assigned agency is chosen,
// wrapping to the first when the last-assigned agency is absent from the
// current set or is last in order. A single candidate is always chosen.
// Returns false only for an empty candidate set.
func SelectNext(candidates []Candidate, lastAssigned *uuid.UUID) (Candidate, bool) {
	ordered := OrderCandidates(candidates)
	if len(ordered) == 0 {
		return Candidate{}, false
	}

	if lastAssigned == nil {
		return ordered[0], true
	}

	for i, c := range ordered {
		if c.AgencyID == *lastAssigned {
			return ordered[(i+1)%len(ordered)], true
		}
	}

	// Last-assigned agency lost eligibility since the previous rotation.
	return ordered[0], true
}
