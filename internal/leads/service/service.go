// Package service implements lead intake and lifecycle management.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadmarket_backend/internal/events"
	"leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/internal/leads/repository"
	"leadmarket_backend/internal/leads/transport"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/logger"
	"leadmarket_backend/platform/phone"
)

const defaultPageSize = 20

// Service orchestrates lead intake and lifecycle operations.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Create takes in a new lead and announces it for distribution.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	params := repository.CreateLeadParams{
		Name:     req.Name,
		Email:    optional(req.Email),
		Zipcode:  optional(req.Zipcode),
		City:     optional(req.City),
		County:   optional(req.County),
		State:    optional(req.State),
		Industry: req.Industry,
		Source:   optional(req.Source),
		Notes:    optional(req.Notes),
	}

	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		params.Phone = &normalized
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead received", "lead_id", lead.ID.String(), "industry", lead.Industry)
	s.bus.Publish(ctx, events.LeadReceived{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
	})

	return toLeadResponse(lead), nil
}

// Get retrieves a lead.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

// List returns a filtered page of leads.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.ListLeadsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	params := repository.ListParams{
		Status:   req.Status,
		Industry: req.Industry,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	}
	if req.AgencyID != "" {
		agencyID, err := uuid.Parse(req.AgencyID)
		if err != nil {
			return transport.ListLeadsResponse{}, apperr.Validation("invalid agency ID")
		}
		params.AgencyID = &agencyID
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ListLeadsResponse{}, err
	}

	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, toLeadResponse(lead))
	}

	return transport.ListLeadsResponse{
		Leads:    out,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Close moves an assigned or reassigned lead to a terminal status. The
// distribution engine no longer touches closed leads.
func (s *Service) Close(ctx context.Context, id uuid.UUID, status string) (transport.LeadResponse, error) {
	if !domain.IsTerminal(status) {
		return transport.LeadResponse{}, apperr.Validation("status must be converted or lost")
	}

	lead, err := s.repo.UpdateStatus(ctx, id,
		[]string{domain.LeadStatusAssigned, domain.LeadStatusReassigned}, status)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead closed", "lead_id", lead.ID.String(), "status", lead.Status)

	return toLeadResponse(lead), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toLeadResponse(l repository.Lead) transport.LeadResponse {
	resp := transport.LeadResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Zipcode:   l.Zipcode,
		City:      l.City,
		County:    l.County,
		State:     l.State,
		Industry:  l.Industry,
		Source:    l.Source,
		Notes:     l.Notes,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
	if l.AssignedAgencyID != nil {
		id := l.AssignedAgencyID.String()
		resp.AssignedAgencyID = &id
	}
	return resp
}
