package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Subscription statuses that qualify an agency to receive leads.
const (
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Candidate is an agency owning a territory matched by a lead's geography,
// annotated with everything the pipeline needs to filter and select.
type Candidate struct {
	AgencyID           uuid.UUID
	AgencyName         string
	Industry           string
	SubscriptionStatus string
	ActiveLeads        int
	Capacity           CapacityLimit
	Territory          Territory
	Priority           int // ownership priority 0-10, higher wins ties
}

// NormalizeIndustry canonicalizes an industry tag for matching and cursor
// keying: trimmed and lower-cased.
func NormalizeIndustry(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// IndustryMatches reports whether an agency's industry tag qualifies for a
// lead's tag. A lead without an industry tag matches every agency.
func IndustryMatches(leadIndustry, agencyIndustry string) bool {
	lead := NormalizeIndustry(leadIndustry)
	if lead == "" {
		return true
	}
	return lead == NormalizeIndustry(agencyIndustry)
}

// SubscriptionBillable reports whether a subscription status is in a
// billable state (trial or active).
func SubscriptionBillable(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case SubscriptionTrial, SubscriptionActive:
		return true
	default:
		return false
	}
}

// FilterEligible drops candidates whose industry does not match the lead's
// and candidates whose subscription is not billable. Pure function of the
// inputs; no persistence.
func FilterEligible(candidates []Candidate, leadIndustry string) []Candidate {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !IndustryMatches(leadIndustry, c.Industry) {
			continue
		}
		if !SubscriptionBillable(c.SubscriptionStatus) {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// FilterByCapacity drops candidates at or above their plan limit. The
// assignment transaction re-checks capacity atomically; this gate only
// narrows the candidate set.
func FilterByCapacity(candidates []Candidate) []Candidate {
	withRoom := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Capacity.HasRoom(c.ActiveLeads) {
			withRoom = append(withRoom, c)
		}
	}
	return withRoom
}

// ExcludeAgencies removes candidates whose agency is in the exclusion set.
// Used by reassignment to keep a rejecting agency out of the rerun.
func ExcludeAgencies(candidates []Candidate, exclude []uuid.UUID) []Candidate {
	if len(exclude) == 0 {
		return candidates
	}
	excluded := make(map[uuid.UUID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	remaining := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !excluded[c.AgencyID] {
			remaining = append(remaining, c)
		}
	}
	return remaining
}
