// Package transport defines the request and response shapes of the
// distribution API.
package transport

import "github.com/google/uuid"

// AssignmentResponse represents an assignment in API responses.
type AssignmentResponse struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"leadId"`
	AgencyID   uuid.UUID `json:"agencyId"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason"`
	Note       *string   `json:"note,omitempty"`
	AssignedAt string    `json:"assignedAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

// DistributeResponse is the structured outcome of a single-lead distribution
// attempt. Benign failures (already assigned, no eligible agency) come back
// with Success=false and a Reason rather than an error status.
type DistributeResponse struct {
	Success    bool                `json:"success"`
	Reason     string              `json:"reason,omitempty"`
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
}

// BatchDistributeRequest drives distribution over a set of leads. When
// LeadIDs is empty the engine sweeps unassigned leads up to Limit.
type BatchDistributeRequest struct {
	LeadIDs []uuid.UUID `json:"leadIds" validate:"omitempty,max=500"`
	Limit   int         `json:"limit" validate:"omitempty,min=1,max=500"`
}

// BatchError records one lead's failure inside a batch.
type BatchError struct {
	LeadID uuid.UUID `json:"leadId"`
	Reason string    `json:"reason"`
}

// BatchDistributeResponse aggregates per-lead outcomes.
type BatchDistributeResponse struct {
	Total       int                  `json:"total"`
	Successful  int                  `json:"successful"`
	Failed      int                  `json:"failed"`
	Assignments []AssignmentResponse `json:"assignments"`
	Errors      []BatchError         `json:"errors"`
}

// RejectRequest is an agency's explicit rejection of its assignment.
type RejectRequest struct {
	AgencyID uuid.UUID `json:"agencyId" validate:"required"`
	Reason   string    `json:"reason" validate:"omitempty,max=500"`
}

// RejectResponse reports whether a replacement agency was found.
type RejectResponse struct {
	Reassigned bool                `json:"reassigned"`
	Reason     string              `json:"reason,omitempty"`
	Assignment *AssignmentResponse `json:"assignment,omitempty"`
}

// DirectAssignRequest is the admin override path to a named agency.
type DirectAssignRequest struct {
	AgencyID uuid.UUID `json:"agencyId" validate:"required"`
}

// StatsResponse is the read-only distribution rollup.
type StatsResponse struct {
	EligibleAgencies  int `json:"eligibleAgenciesCount"`
	ActiveAssignments int `json:"assignmentsCount"`
	Rejections        int `json:"rejectionsCount"`
	Reassignments     int `json:"reassignmentsCount"`
	UnassignedLeads   int `json:"unassignedLeadsCount"`
}

// EligibilityRequest asks which agencies would receive a hypothetical lead.
type EligibilityRequest struct {
	TerritoryType  string `form:"territoryType" validate:"required,oneof=zipcode city county state"`
	TerritoryValue string `form:"territoryValue" validate:"required,min=1,max=100"`
	Industry       string `form:"industry" validate:"omitempty,max=100"`
}

// EligibleAgencyResponse describes one eligible agency and its standing.
type EligibleAgencyResponse struct {
	AgencyID           uuid.UUID `json:"agencyId"`
	Name               string    `json:"name"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
	Priority           int       `json:"priority"`
	ActiveLeads        int       `json:"activeLeads"`
	MaxLeads           *int      `json:"maxLeads,omitempty"`
	HasCapacity        bool      `json:"hasCapacity"`
}

// EligibilityResponse lists eligible agencies for a territory and industry.
type EligibilityResponse struct {
	Agencies []EligibleAgencyResponse `json:"agencies"`
	Total    int                      `json:"total"`
}

// CapacityFilterRequest narrows a set of agencies to those able to accept
// another lead.
type CapacityFilterRequest struct {
	AgencyIDs []uuid.UUID `json:"agencyIds" validate:"required,min=1,max=200"`
}
