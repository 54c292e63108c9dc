// Package transport defines the request and response shapes of the
// agencies HTTP API.
package transport

// CreateAgencyRequest is the payload for registering a new agency.
type CreateAgencyRequest struct {
	Name               string `json:"name" validate:"required,max=200"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"omitempty,max=20"`
	Industry           string `json:"industry" validate:"required,max=100"`
	SubscriptionStatus string `json:"subscriptionStatus" validate:"omitempty,oneof=trial active suspended cancelled"`
	MaxLeads           *int   `json:"maxLeads" validate:"omitempty,min=1"`
}

// UpdateAgencyRequest carries partial updates; omitted fields are untouched.
type UpdateAgencyRequest struct {
	Name               *string `json:"name" validate:"omitempty,max=200"`
	Email              *string `json:"email" validate:"omitempty,email"`
	Phone              *string `json:"phone" validate:"omitempty,max=20"`
	Industry           *string `json:"industry" validate:"omitempty,max=100"`
	SubscriptionStatus *string `json:"subscriptionStatus" validate:"omitempty,oneof=trial active suspended cancelled"`
	MaxLeads           *int    `json:"maxLeads" validate:"omitempty,min=1"`
	ClearMaxLeads      bool    `json:"clearMaxLeads"`
}

// ListAgenciesRequest filters and pages the agency list.
type ListAgenciesRequest struct {
	Search             string `form:"search" validate:"omitempty,max=200"`
	SubscriptionStatus string `form:"subscriptionStatus" validate:"omitempty,oneof=trial active suspended cancelled"`
	Page               int    `form:"page" validate:"omitempty,min=1"`
	PageSize           int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// AgencyResponse is the public representation of an agency.
type AgencyResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              *string `json:"phone,omitempty"`
	Industry           string  `json:"industry"`
	SubscriptionStatus string  `json:"subscriptionStatus"`
	MaxLeads           *int    `json:"maxLeads,omitempty"`
	CurrentLeads       int     `json:"currentLeads"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ListAgenciesResponse pages the agency list.
type ListAgenciesResponse struct {
	Agencies []AgencyResponse `json:"agencies"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// AddTerritoryRequest is the payload for adding an ownership row.
type AddTerritoryRequest struct {
	Type     string `json:"type" validate:"required,oneof=zipcode city county state"`
	Value    string `json:"value" validate:"required,max=100"`
	Priority int    `json:"priority" validate:"min=0,max=10"`
}

// UpdateTerritoryRequest toggles activation or changes priority.
type UpdateTerritoryRequest struct {
	IsActive *bool `json:"isActive"`
	Priority *int  `json:"priority" validate:"omitempty,min=0,max=10"`
}

// TerritoryResponse is the public representation of an ownership row.
type TerritoryResponse struct {
	ID        string `json:"id"`
	AgencyID  string `json:"agencyId"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Priority  int    `json:"priority"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ConflictOwnerResponse is one party to a contested territory.
type ConflictOwnerResponse struct {
	AgencyID   string `json:"agencyId"`
	AgencyName string `json:"agencyName"`
	Priority   int    `json:"priority"`
}

// ConflictResponse is a geography unit actively owned by multiple agencies.
type ConflictResponse struct {
	Type   string                  `json:"type"`
	Value  string                  `json:"value"`
	Owners []ConflictOwnerResponse `json:"owners"`
}

// ConflictReportResponse lists all contested territories.
type ConflictReportResponse struct {
	Conflicts []ConflictResponse `json:"conflicts"`
	Total     int                `json:"total"`
}
