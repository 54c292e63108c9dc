package domain

import (
	"testing"

	"github.com/google/uuid"
)

func candidateWithPriority(id uuid.UUID, priority int) Candidate {
	return Candidate{
		AgencyID:           id,
		Industry:           "roofing",
		SubscriptionStatus: SubscriptionActive,
		Priority:           priority,
	}
}

func TestOrderCandidatesSortsByPriorityThenAgencyID(t *testing.T) {
	low := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	mid := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	high := uuid.MustParse("cccccccc-0000-0000-0000-000000000003")

	ordered := OrderCandidates([]Candidate{
		candidateWithPriority(mid, 5),
		candidateWithPriority(high, 9),
		candidateWithPriority(low, 5),
	})

	if len(ordered) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(ordered))
	}
	if ordered[0].AgencyID != high {
		t.Fatalf("expected highest priority first, got %s", ordered[0].AgencyID)
	}
	if ordered[1].AgencyID != low || ordered[2].AgencyID != mid {
		t.Fatalf("expected ID ascending tiebreak, got %s then %s", ordered[1].AgencyID, ordered[2].AgencyID)
	}
}

func TestOrderCandidatesDeduplicatesKeepingHighestPriority(t *testing.T) {
	agency := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")

	ordered := OrderCandidates([]Candidate{
		candidateWithPriority(agency, 2),
		candidateWithPriority(agency, 7),
		candidateWithPriority(agency, 4),
	})

	if len(ordered) != 1 {
		t.Fatalf("expected 1 candidate after dedup, got %d", len(ordered))
	}
	if ordered[0].Priority != 7 {
		t.Fatalf("expected highest ownership priority kept, got %d", ordered[0].Priority)
	}
}

func TestSelectNextEmptySet(t *testing.T) {
	if _, ok := SelectNext(nil, nil); ok {
		t.Fatal("expected no selection from an empty candidate set")
	}
}

func TestSelectNextNilCursorPicksFirstInOrder(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")

	chosen, ok := SelectNext([]Candidate{
		candidateWithPriority(b, 0),
		candidateWithPriority(a, 0),
	}, nil)
	if !ok {
		t.Fatal("expected a selection")
	}
	if chosen.AgencyID != a {
		t.Fatalf("expected first in rotation order, got %s", chosen.AgencyID)
	}
}

func TestSelectNextAdvancesPastCursor(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	c := uuid.MustParse("cccccccc-0000-0000-0000-000000000003")
	candidates := []Candidate{
		candidateWithPriority(a, 0),
		candidateWithPriority(b, 0),
		candidateWithPriority(c, 0),
	}

	chosen, ok := SelectNext(candidates, &a)
	if !ok || chosen.AgencyID != b {
		t.Fatalf("expected candidate after cursor, got %s", chosen.AgencyID)
	}
}

func TestSelectNextWrapsAroundAfterLast(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	candidates := []Candidate{
		candidateWithPriority(a, 0),
		candidateWithPriority(b, 0),
	}

	chosen, ok := SelectNext(candidates, &b)
	if !ok || chosen.AgencyID != a {
		t.Fatalf("expected wrap to first candidate, got %s", chosen.AgencyID)
	}
}

func TestSelectNextCursorAgencyNoLongerEligible(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	gone := uuid.MustParse("dddddddd-0000-0000-0000-000000000004")
	candidates := []Candidate{
		candidateWithPriority(a, 0),
		candidateWithPriority(b, 0),
	}

	chosen, ok := SelectNext(candidates, &gone)
	if !ok || chosen.AgencyID != a {
		t.Fatalf("expected reset to first candidate, got %s", chosen.AgencyID)
	}
}

func TestSelectNextSingleCandidateAlwaysChosen(t *testing.T) {
	only := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	candidates := []Candidate{candidateWithPriority(only, 0)}

	chosen, ok := SelectNext(candidates, &only)
	if !ok || chosen.AgencyID != only {
		t.Fatal("expected the only candidate to be selected even when it was last assigned")
	}
}

func TestSelectNextFullRotationIsFair(t *testing.T) {
	a := uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	b := uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	c := uuid.MustParse("cccccccc-0000-0000-0000-000000000003")
	candidates := []Candidate{
		candidateWithPriority(a, 0),
		candidateWithPriority(b, 0),
		candidateWithPriority(c, 0),
	}

	counts := make(map[uuid.UUID]int)
	var cursor *uuid.UUID
	for i := 0; i < 9; i++ {
		chosen, ok := SelectNext(candidates, cursor)
		if !ok {
			t.Fatal("expected a selection")
		}
		counts[chosen.AgencyID]++
		id := chosen.AgencyID
		cursor = &id
	}

	for _, id := range []uuid.UUID{a, b, c} {
		if counts[id] != 3 {
			t.Fatalf("expected 3 assignments for %s over 9 rounds, got %d", id, counts[id])
		}
	}
}
