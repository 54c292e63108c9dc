// Package service implements agency and territory management.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadmarket_backend/internal/agencies/repository"
	"leadmarket_backend/internal/agencies/transport"
	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/platform/logger"
	"leadmarket_backend/platform/phone"
)

const defaultPageSize = 20

// Service orchestrates agency and territory operations.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new agencies service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create registers a new agency. New agencies start on trial unless a
// subscription status is given.
func (s *Service) Create(ctx context.Context, req transport.CreateAgencyRequest) (transport.AgencyResponse, error) {
	status := req.SubscriptionStatus
	if status == "" {
		status = domain.SubscriptionTrial
	}

	var phonePtr *string
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		phonePtr = &normalized
	}

	agency, err := s.repo.Create(ctx, repository.CreateAgencyParams{
		Name:               req.Name,
		Email:              req.Email,
		Phone:              phonePtr,
		Industry:           req.Industry,
		SubscriptionStatus: status,
		MaxLeads:           req.MaxLeads,
	})
	if err != nil {
		return transport.AgencyResponse{}, err
	}

	s.log.Info("agency created", "agency_id", agency.ID.String(), "industry", agency.Industry)

	return toAgencyResponse(agency), nil
}

// Get retrieves an agency.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.AgencyResponse, error) {
	agency, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.AgencyResponse{}, err
	}
	return toAgencyResponse(agency), nil
}

// List returns a filtered page of agencies.
func (s *Service) List(ctx context.Context, req transport.ListAgenciesRequest) (transport.ListAgenciesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	agencies, total, err := s.repo.List(ctx, repository.ListParams{
		Search:             req.Search,
		SubscriptionStatus: req.SubscriptionStatus,
		Offset:             (page - 1) * pageSize,
		Limit:              pageSize,
	})
	if err != nil {
		return transport.ListAgenciesResponse{}, err
	}

	out := make([]transport.AgencyResponse, 0, len(agencies))
	for _, agency := range agencies {
		out = append(out, toAgencyResponse(agency))
	}

	return transport.ListAgenciesResponse{
		Agencies: out,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update applies partial changes to an agency.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAgencyRequest) (transport.AgencyResponse, error) {
	params := repository.UpdateAgencyParams{
		Name:               req.Name,
		Email:              req.Email,
		Industry:           req.Industry,
		SubscriptionStatus: req.SubscriptionStatus,
		MaxLeads:           req.MaxLeads,
		ClearMaxLeads:      req.ClearMaxLeads,
	}

	if req.Phone != nil && *req.Phone != "" {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	agency, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.AgencyResponse{}, err
	}

	if req.SubscriptionStatus != nil {
		s.log.Info("agency subscription changed",
			"agency_id", agency.ID.String(),
			"subscription_status", agency.SubscriptionStatus,
		)
	}

	return toAgencyResponse(agency), nil
}

// Delete removes an agency and its territories.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("agency deleted", "agency_id", id.String())
	return nil
}

func toAgencyResponse(a repository.Agency) transport.AgencyResponse {
	return transport.AgencyResponse{
		ID:                 a.ID.String(),
		Name:               a.Name,
		Email:              a.Email,
		Phone:              a.Phone,
		Industry:           a.Industry,
		SubscriptionStatus: a.SubscriptionStatus,
		MaxLeads:           a.MaxLeads,
		CurrentLeads:       a.CurrentLeads,
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
	}
}
