// Package transport defines the request and response shapes of the
// leads HTTP API.
package transport

// CreateLeadRequest is the intake payload for a new lead. At least one
// geography field must be set for the lead to be distributable, but intake
// accepts incomplete records so no inquiry is lost.
type CreateLeadRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Zipcode  string `json:"zipcode" validate:"omitempty,max=20"`
	City     string `json:"city" validate:"omitempty,max=100"`
	County   string `json:"county" validate:"omitempty,max=100"`
	State    string `json:"state" validate:"omitempty,max=100"`
	Industry string `json:"industry" validate:"required,max=100"`
	Source   string `json:"source" validate:"omitempty,max=100"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

// ListLeadsRequest filters and pages the lead list.
type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=new assigned rejected reassigned converted lost"`
	Industry string `form:"industry" validate:"omitempty,max=100"`
	AgencyID string `form:"agencyId" validate:"omitempty,uuid"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// UpdateLeadStatusRequest closes out a lead.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=converted lost"`
}

// LeadResponse is the public representation of a lead.
type LeadResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Zipcode          *string `json:"zipcode,omitempty"`
	City             *string `json:"city,omitempty"`
	County           *string `json:"county,omitempty"`
	State            *string `json:"state,omitempty"`
	Industry         string  `json:"industry"`
	Source           *string `json:"source,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	Status           string  `json:"status"`
	AssignedAgencyID *string `json:"assignedAgencyId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ListLeadsResponse pages the lead list.
type ListLeadsResponse struct {
	Leads    []LeadResponse `json:"leads"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
