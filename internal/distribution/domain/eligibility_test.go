package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestIndustryMatches(t *testing.T) {
	cases := []struct {
		name   string
		lead   string
		agency string
		want   bool
	}{
		{"exact match", "roofing", "roofing", true},
		{"case insensitive", "Roofing", "ROOFING", true},
		{"whitespace trimmed", "  roofing ", "roofing", true},
		{"different industries", "roofing", "plumbing", false},
		{"untagged lead matches all", "", "plumbing", true},
		{"untagged agency does not match tagged lead", "roofing", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IndustryMatches(tc.lead, tc.agency); got != tc.want {
				t.Fatalf("IndustryMatches(%q, %q) = %v, want %v", tc.lead, tc.agency, got, tc.want)
			}
		})
	}
}

func TestSubscriptionBillable(t *testing.T) {
	billable := []string{SubscriptionTrial, SubscriptionActive, "Active", " trial "}
	for _, status := range billable {
		if !SubscriptionBillable(status) {
			t.Fatalf("expected %q to be billable", status)
		}
	}

	notBillable := []string{SubscriptionSuspended, SubscriptionCancelled, SubscriptionExpired, "", "unknown"}
	for _, status := range notBillable {
		if SubscriptionBillable(status) {
			t.Fatalf("expected %q not to be billable", status)
		}
	}
}

func TestFilterEligibleDropsWrongIndustryAndLapsedSubscriptions(t *testing.T) {
	match := Candidate{AgencyID: uuid.New(), Industry: "roofing", SubscriptionStatus: SubscriptionActive}
	wrongIndustry := Candidate{AgencyID: uuid.New(), Industry: "plumbing", SubscriptionStatus: SubscriptionActive}
	suspended := Candidate{AgencyID: uuid.New(), Industry: "roofing", SubscriptionStatus: SubscriptionSuspended}
	trial := Candidate{AgencyID: uuid.New(), Industry: "roofing", SubscriptionStatus: SubscriptionTrial}

	eligible := FilterEligible([]Candidate{match, wrongIndustry, suspended, trial}, "roofing")

	if len(eligible) != 2 {
		t.Fatalf("expected 2 eligible candidates, got %d", len(eligible))
	}
	if eligible[0].AgencyID != match.AgencyID || eligible[1].AgencyID != trial.AgencyID {
		t.Fatal("expected the active and trial roofing agencies to remain")
	}
}

func TestFilterByCapacity(t *testing.T) {
	unlimited := Candidate{AgencyID: uuid.New(), ActiveLeads: 500, Capacity: Unlimited()}
	atLimit := Candidate{AgencyID: uuid.New(), ActiveLeads: 10, Capacity: Bounded(10)}
	overLimit := Candidate{AgencyID: uuid.New(), ActiveLeads: 12, Capacity: Bounded(10)}
	withRoom := Candidate{AgencyID: uuid.New(), ActiveLeads: 9, Capacity: Bounded(10)}

	filtered := FilterByCapacity([]Candidate{unlimited, atLimit, overLimit, withRoom})

	if len(filtered) != 2 {
		t.Fatalf("expected 2 candidates with room, got %d", len(filtered))
	}
	if filtered[0].AgencyID != unlimited.AgencyID || filtered[1].AgencyID != withRoom.AgencyID {
		t.Fatal("expected the unlimited agency and the one under its cap to remain")
	}
}

func TestExcludeAgencies(t *testing.T) {
	keep := Candidate{AgencyID: uuid.New()}
	drop := Candidate{AgencyID: uuid.New()}

	remaining := ExcludeAgencies([]Candidate{keep, drop}, []uuid.UUID{drop.AgencyID})

	if len(remaining) != 1 || remaining[0].AgencyID != keep.AgencyID {
		t.Fatalf("expected only the non-excluded agency to remain, got %d candidates", len(remaining))
	}

	unchanged := ExcludeAgencies([]Candidate{keep, drop}, nil)
	if len(unchanged) != 2 {
		t.Fatalf("expected no filtering with empty exclusion set, got %d candidates", len(unchanged))
	}
}

func TestCapacityFromPlan(t *testing.T) {
	if CapacityFromPlan(nil).IsBounded() {
		t.Fatal("expected nil plan limit to be unlimited")
	}

	limit := 5
	capped := CapacityFromPlan(&limit)
	if max, ok := capped.Max(); !ok || max != 5 {
		t.Fatalf("expected bounded limit of 5, got %d (bounded=%v)", max, ok)
	}
	if !capped.HasRoom(4) {
		t.Fatal("expected room at 4 of 5")
	}
	if capped.HasRoom(5) {
		t.Fatal("expected no room at 5 of 5")
	}
}
