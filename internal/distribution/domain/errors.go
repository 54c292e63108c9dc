package domain

import "errors"

// Sentinel errors for the distribution pipeline. AlreadyAssigned and
// NoEligibleAgency are benign outcomes: the service layer converts them to
// structured results instead of HTTP errors so batch runs record them
// per lead without aborting.
var (
	// ErrAlreadyAssigned means the admission precondition lost a race:
	// the lead was no longer unassigned at write time.
	ErrAlreadyAssigned = errors.New("lead already assigned")

	// ErrNoEligibleAgency means the eligibility/capacity/selection pipeline
	// produced an empty candidate set.
	ErrNoEligibleAgency = errors.New("no eligible agency")

	// ErrCapacityExceeded means the chosen agency's guarded counter
	// increment found it at its plan limit.
	ErrCapacityExceeded = errors.New("agency capacity exceeded")

	// ErrCursorConflict means the rotation cursor moved between selection
	// and the assignment write. The service re-reads the cursor and
	// selects again; callers never see this error.
	ErrCursorConflict = errors.New("rotation cursor moved")
)

// Benign reports whether an error is an expected, non-fatal pipeline outcome.
func Benign(err error) bool {
	return errors.Is(err, ErrAlreadyAssigned) ||
		errors.Is(err, ErrNoEligibleAgency) ||
		errors.Is(err, ErrCapacityExceeded)
}

// Failure reasons reported in structured results.
const (
	ReasonAlreadyAssigned  = "already_assigned"
	ReasonNoEligibleAgency = "no_eligible_agency"
	ReasonCapacityExceeded = "capacity_exceeded"
	ReasonMissingGeography = "missing_geography"
	ReasonNotDistributable = "not_distributable"
)

// ReasonFor maps a benign pipeline error to its structured failure reason.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyAssigned):
		return ReasonAlreadyAssigned
	case errors.Is(err, ErrNoEligibleAgency):
		return ReasonNoEligibleAgency
	case errors.Is(err, ErrCapacityExceeded):
		return ReasonCapacityExceeded
	default:
		return ""
	}
}
