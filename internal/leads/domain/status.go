// Package domain provides core business rules for the leads bounded context.
package domain

// Lead lifecycle statuses. The distribution engine owns the transitions
// between new, assigned, rejected, and reassigned; converted and lost are
// terminal statuses set by downstream lead management.
const (
	LeadStatusNew        = "new"
	LeadStatusAssigned   = "assigned"
	LeadStatusRejected   = "rejected"
	LeadStatusReassigned = "reassigned"
	LeadStatusConverted  = "converted"
	LeadStatusLost       = "lost"
)

var validStatuses = map[string]bool{
	LeadStatusNew:        true,
	LeadStatusAssigned:   true,
	LeadStatusRejected:   true,
	LeadStatusReassigned: true,
	LeadStatusConverted:  true,
	LeadStatusLost:       true,
}

var terminalStatuses = map[string]bool{
	LeadStatusConverted: true,
	LeadStatusLost:      true,
}

// IsValidStatus reports whether the status is a known lead status.
func IsValidStatus(status string) bool {
	return validStatuses[status]
}

// IsTerminal reports whether the lead has left the engine's concern.
func IsTerminal(status string) bool {
	return terminalStatuses[status]
}

// Distributable reports whether the lead can enter the distribution pipeline.
// Only unassigned leads qualify; rejected leads re-enter via reassignment.
func Distributable(status string) bool {
	return status == LeadStatusNew
}
