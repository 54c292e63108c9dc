package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead is the full intake record including contact details. The
// distribution engine reads a narrower view of the same table.
type Lead struct {
	ID               uuid.UUID
	Name             string
	Email            *string
	Phone            *string
	Zipcode          *string
	City             *string
	County           *string
	State            *string
	Industry         string
	Source           *string
	Notes            *string
	Status           string
	AssignedAgencyID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CreateLeadParams contains data for intake of a new lead.
type CreateLeadParams struct {
	Name     string
	Email    *string
	Phone    *string
	Zipcode  *string
	City     *string
	County   *string
	State    *string
	Industry string
	Source   *string
	Notes    *string
}

// ListParams filters and pages the lead list.
type ListParams struct {
	Status   string
	Industry string
	AgencyID *uuid.UUID
	Offset   int
	Limit    int
}

// Repository is the persistence surface of the leads module.
type Repository interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatuses []string, toStatus string) (Lead, error)
}
