// Package events defines the domain events exchanged between modules.
package events

import "github.com/google/uuid"

// LeadReceived fires when a new lead is created by intake.
type LeadReceived struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
}

// EventName returns the unique identifier for this event type.
func (LeadReceived) EventName() string { return "lead.received" }

// LeadAssigned fires when a lead is assigned to an agency.
type LeadAssigned struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	AgencyID     uuid.UUID `json:"agencyId"`
	AssignmentID uuid.UUID `json:"assignmentId"`
}

// EventName returns the unique identifier for this event type.
func (LeadAssigned) EventName() string { return "lead.assigned" }

// LeadRejected fires when an agency rejects an assignment.
type LeadRejected struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	AgencyID uuid.UUID `json:"agencyId"`
	Reason   string    `json:"reason"`
}

// EventName returns the unique identifier for this event type.
func (LeadRejected) EventName() string { return "lead.rejected" }

// LeadReassigned fires when a rejected lead is routed to another agency.
type LeadReassigned struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	FromAgencyID uuid.UUID `json:"fromAgencyId"`
	ToAgencyID   uuid.UUID `json:"toAgencyId"`
	AssignmentID uuid.UUID `json:"assignmentId"`
}

// EventName returns the unique identifier for this event type.
func (LeadReassigned) EventName() string { return "lead.reassigned" }
