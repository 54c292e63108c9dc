package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Agency is a marketplace customer buying territory rights.
type Agency struct {
	ID                 uuid.UUID
	Name               string
	Email              string
	Phone              *string
	Industry           string
	SubscriptionStatus string
	MaxLeads           *int
	CurrentLeads       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Territory is an ownership row binding an agency to a geography unit.
type Territory struct {
	ID        uuid.UUID
	AgencyID  uuid.UUID
	Type      string
	Value     string
	Priority  int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TerritoryConflict reports a geography unit owned by more than one agency.
type TerritoryConflict struct {
	Type   string
	Value  string
	Owners []ConflictOwner
}

// ConflictOwner is one party to a territory conflict.
type ConflictOwner struct {
	AgencyID   uuid.UUID
	AgencyName string
	Priority   int
}

// CreateAgencyParams contains data for creating an agency.
type CreateAgencyParams struct {
	Name               string
	Email              string
	Phone              *string
	Industry           string
	SubscriptionStatus string
	MaxLeads           *int
}

// UpdateAgencyParams contains fields to update; nil fields are untouched.
type UpdateAgencyParams struct {
	Name               *string
	Email              *string
	Phone              *string
	Industry           *string
	SubscriptionStatus *string
	MaxLeads           *int
	ClearMaxLeads      bool
}

// CreateTerritoryParams contains data for adding an ownership row.
type CreateTerritoryParams struct {
	AgencyID uuid.UUID
	Type     string
	Value    string
	Priority int
}

// ListParams filters and pages the agency list.
type ListParams struct {
	Search             string
	SubscriptionStatus string
	Offset             int
	Limit              int
}

// Repository is the persistence surface of the agencies module.
type Repository interface {
	Create(ctx context.Context, params CreateAgencyParams) (Agency, error)
	GetByID(ctx context.Context, id uuid.UUID) (Agency, error)
	List(ctx context.Context, params ListParams) ([]Agency, int, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateAgencyParams) (Agency, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddTerritory(ctx context.Context, params CreateTerritoryParams) (Territory, error)
	ListTerritories(ctx context.Context, agencyID uuid.UUID) ([]Territory, error)
	SetTerritoryActive(ctx context.Context, id uuid.UUID, active bool) (Territory, error)
	SetTerritoryPriority(ctx context.Context, id uuid.UUID, priority int) (Territory, error)

	ListConflicts(ctx context.Context) ([]TerritoryConflict, error)
}
