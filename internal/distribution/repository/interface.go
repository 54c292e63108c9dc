package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
)

// Lead is the engine's view of a lead: geography, industry, and lifecycle
// state. Contact fields live in the leads module.
type Lead struct {
	ID               uuid.UUID
	Zipcode          string
	City             string
	County           string
	State            string
	Industry         string
	Status           string
	AssignedAgencyID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Geography returns the lead's location fields as a domain value.
func (l Lead) Geography() domain.Geography {
	return domain.Geography{
		Zipcode: l.Zipcode,
		City:    l.City,
		County:  l.County,
		State:   l.State,
	}
}

// Assignment statuses. History is retained: rejected and reassigned rows
// are superseded, never deleted.
const (
	AssignmentActive     = "active"
	AssignmentRejected   = "rejected"
	AssignmentReassigned = "reassigned"
)

// Assignment reasons recorded for auditability.
const (
	ReasonRoundRobin = "round-robin"
	ReasonManual     = "manual"
	ReasonReassigned = "reassignment"
)

// Assignment links one lead to one agency at a point in time.
type Assignment struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	AgencyID   uuid.UUID
	Status     string
	Reason     string
	Note       *string
	AssignedAt time.Time
	UpdatedAt  time.Time
}

// CursorGuard makes the cursor advance conditional on the last-assigned
// agency the caller observed during selection. The write fails with
// domain.ErrCursorConflict when the cursor no longer holds that value,
// so a selection based on a stale read never commits.
type CursorGuard struct {
	// LastAgencyID is the cursor value selection was based on, nil when
	// the cursor did not exist yet.
	LastAgencyID *uuid.UUID
}

// AssignParams drives the atomic assignment write.
type AssignParams struct {
	LeadID   uuid.UUID
	AgencyID uuid.UUID
	// ExpectedStatuses guards the conditional lead update; the write fails
	// with domain.ErrAlreadyAssigned when the lead is in none of them.
	ExpectedStatuses []string
	CursorKey        domain.CursorKey
	// CursorGuard protects round-robin selections. A nil guard advances
	// the cursor unconditionally, which the admin direct-assign path uses
	// since it does not select by rotation.
	CursorGuard *CursorGuard
	Reason      string
}

// Stats is the read-only distribution rollup for operational dashboards.
type Stats struct {
	EligibleAgencies  int
	ActiveAssignments int
	Rejections        int
	Reassignments     int
	UnassignedLeads   int
}

// AgencyCapacity is a point-in-time view of an agency's standing for the
// capacity filter endpoint.
type AgencyCapacity struct {
	AgencyID           uuid.UUID
	Name               string
	SubscriptionStatus string
	ActiveLeads        int
	MaxLeads           *int
}

// LeadReader provides the engine's read access to leads.
type LeadReader interface {
	GetLead(ctx context.Context, id uuid.UUID) (Lead, error)
	ListUnassignedLeadIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
}

// CandidateResolver resolves geography to owning agency candidates.
type CandidateResolver interface {
	// ResolveOwners returns all active ownership matches for the geography,
	// each tagged with priority and the matched territory. An empty result
	// is not an error.
	ResolveOwners(ctx context.Context, geo domain.Geography) ([]domain.Candidate, error)
	// ResolveAgencyOwnership returns the candidates limited to one agency,
	// for the admin direct-assign revalidation path.
	ResolveAgencyOwnership(ctx context.Context, agencyID uuid.UUID, geo domain.Geography) ([]domain.Candidate, error)
}

// AgencyReader reads agency standing snapshots.
type AgencyReader interface {
	ListAgencyCapacity(ctx context.Context, ids []uuid.UUID) ([]AgencyCapacity, error)
}

// CursorReader reads the persisted round-robin cursor state.
type CursorReader interface {
	// LastAssigned returns the agency last assigned under the cursor key,
	// or nil when the cursor does not exist yet.
	LastAssigned(ctx context.Context, key domain.CursorKey) (*uuid.UUID, error)
}

// AssignmentWriter performs the engine's state transitions.
type AssignmentWriter interface {
	// Assign atomically flips the lead to assigned, inserts the active
	// assignment row, increments the agency counter under its capacity
	// guard, and advances the rotation cursor.
	Assign(ctx context.Context, params AssignParams) (Assignment, error)
	// RejectActive archives the lead's active assignment as rejected, flips
	// the lead to rejected, and decrements the agency counter.
	RejectActive(ctx context.Context, leadID, agencyID uuid.UUID, note string) (Assignment, error)
	// MarkReassigned supersedes a rejected assignment row after a
	// successful reassignment.
	MarkReassigned(ctx context.Context, assignmentID uuid.UUID) error
}

// StatsReader provides the read-only rollups.
type StatsReader interface {
	DistributionStats(ctx context.Context, territory *domain.Territory) (Stats, error)
	ListAssignmentsForLead(ctx context.Context, leadID uuid.UUID) ([]Assignment, error)
}

// Repository is the full persistence surface of the distribution engine.
type Repository interface {
	LeadReader
	CandidateResolver
	AgencyReader
	CursorReader
	AssignmentWriter
	StatsReader
}
