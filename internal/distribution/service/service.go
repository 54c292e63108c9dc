// Package service orchestrates the lead distribution pipeline: territory
// resolution, eligibility filtering, capacity gating, round-robin selection,
// and the atomic assignment write.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/repository"
	"leadmarket_backend/internal/distribution/transport"
	"leadmarket_backend/internal/events"
	leadsdomain "leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/apperr"
	"leadmarket_backend/platform/logger"
)

// rotationRetryLimit bounds how often a distribution re-runs selection
// after losing the cursor compare-and-set to a concurrent assignment.
const rotationRetryLimit = 5

// Service provides the distribution engine's operations.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new distribution service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// DistributeLead runs the full pipeline for one lead and returns a
// structured outcome. Benign failures (already assigned, no eligible
// agency, capacity lost to a race) are reported in the result, not as
// errors; NotFound and persistence failures are returned as errors.
func (s *Service) DistributeLead(ctx context.Context, leadID uuid.UUID) (transport.DistributeResponse, error) {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return transport.DistributeResponse{}, err
	}

	if lead.Status == leadsdomain.LeadStatusAssigned || lead.Status == leadsdomain.LeadStatusReassigned {
		s.log.DistributionOutcome(leadID.String(), false, domain.ReasonAlreadyAssigned)
		return failure(domain.ReasonAlreadyAssigned), nil
	}
	if !leadsdomain.Distributable(lead.Status) {
		s.log.DistributionOutcome(leadID.String(), false, domain.ReasonNotDistributable)
		return failure(domain.ReasonNotDistributable), nil
	}
	if lead.Geography().IsEmpty() {
		return transport.DistributeResponse{}, apperr.Validation("lead has no geography")
	}

	assignment, err := s.runPipeline(ctx, lead, nil, []string{leadsdomain.LeadStatusNew}, repository.ReasonRoundRobin)
	if err != nil {
		if domain.Benign(err) {
			reason := domain.ReasonFor(err)
			s.log.DistributionOutcome(leadID.String(), false, reason)
			return failure(reason), nil
		}
		return transport.DistributeResponse{}, err
	}

	s.log.DistributionOutcome(leadID.String(), true, "")
	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       assignment.LeadID,
		AgencyID:     assignment.AgencyID,
		AssignmentID: assignment.ID,
	})

	response := toAssignmentResponse(assignment)
	return transport.DistributeResponse{Success: true, Assignment: &response}, nil
}

// AssignToAgency is the admin override path: it bypasses round-robin
// selection but re-validates territory ownership, eligibility, and capacity
// for the named agency before writing the assignment.
func (s *Service) AssignToAgency(ctx context.Context, leadID, agencyID uuid.UUID) (transport.AssignmentResponse, error) {
	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return transport.AssignmentResponse{}, err
	}
	if lead.Status != leadsdomain.LeadStatusNew && lead.Status != leadsdomain.LeadStatusRejected {
		return transport.AssignmentResponse{}, apperr.Conflict("lead is not available for assignment")
	}
	if lead.Geography().IsEmpty() {
		return transport.AssignmentResponse{}, apperr.Validation("lead has no geography")
	}

	owned, err := s.repo.ResolveAgencyOwnership(ctx, agencyID, lead.Geography())
	if err != nil {
		return transport.AssignmentResponse{}, err
	}
	if len(owned) == 0 {
		return transport.AssignmentResponse{}, apperr.Validation("agency does not own a matching territory")
	}

	eligible := domain.FilterEligible(owned, lead.Industry)
	if len(eligible) == 0 {
		return transport.AssignmentResponse{}, apperr.Validation("agency is not eligible for this lead")
	}
	if len(domain.FilterByCapacity(eligible)) == 0 {
		return transport.AssignmentResponse{}, apperr.Conflict("agency is at capacity")
	}

	territory, _ := lead.Geography().MostSpecific()
	assignment, err := s.repo.Assign(ctx, repository.AssignParams{
		LeadID:           leadID,
		AgencyID:         agencyID,
		ExpectedStatuses: []string{leadsdomain.LeadStatusNew, leadsdomain.LeadStatusRejected},
		CursorKey:        domain.NewCursorKey(territory, lead.Industry),
		Reason:           repository.ReasonManual,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyAssigned):
			return transport.AssignmentResponse{}, apperr.Conflict("lead already assigned")
		case errors.Is(err, domain.ErrCapacityExceeded):
			return transport.AssignmentResponse{}, apperr.Conflict("agency is at capacity")
		default:
			return transport.AssignmentResponse{}, err
		}
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       assignment.LeadID,
		AgencyID:     assignment.AgencyID,
		AssignmentID: assignment.ID,
	})

	return toAssignmentResponse(assignment), nil
}

// runPipeline executes resolve → filter → gate → select → assign for a lead
// already validated as distributable.
func (s *Service) runPipeline(ctx context.Context, lead repository.Lead, exclude []uuid.UUID, expectedStatuses []string, reason string) (repository.Assignment, error) {
	candidates, err := s.repo.ResolveOwners(ctx, lead.Geography())
	if err != nil {
		return repository.Assignment{}, err
	}

	candidates = domain.ExcludeAgencies(candidates, exclude)
	candidates = domain.FilterEligible(candidates, lead.Industry)
	candidates = domain.FilterByCapacity(candidates)
	if len(candidates) == 0 {
		return repository.Assignment{}, domain.ErrNoEligibleAgency
	}

	territory, ok := lead.Geography().MostSpecific()
	if !ok {
		return repository.Assignment{}, domain.ErrNoEligibleAgency
	}
	cursorKey := domain.NewCursorKey(territory, lead.Industry)

	// The cursor is read outside the assignment transaction, so the write
	// re-checks it under a guard. When a concurrent assignment in the same
	// rotation advanced the cursor in between, selection is re-run against
	// the fresh value instead of committing a stale pick.
	for attempt := 0; attempt < rotationRetryLimit; attempt++ {
		lastAssigned, err := s.repo.LastAssigned(ctx, cursorKey)
		if err != nil {
			return repository.Assignment{}, err
		}

		chosen, ok := domain.SelectNext(candidates, lastAssigned)
		if !ok {
			return repository.Assignment{}, domain.ErrNoEligibleAgency
		}

		assignment, err := s.repo.Assign(ctx, repository.AssignParams{
			LeadID:           lead.ID,
			AgencyID:         chosen.AgencyID,
			ExpectedStatuses: expectedStatuses,
			CursorKey:        cursorKey,
			CursorGuard:      &repository.CursorGuard{LastAgencyID: lastAssigned},
			Reason:           reason,
		})
		if errors.Is(err, domain.ErrCursorConflict) {
			continue
		}
		return assignment, err
	}

	return repository.Assignment{}, fmt.Errorf("assign lead %s: rotation cursor contention", lead.ID)
}

func failure(reason string) transport.DistributeResponse {
	return transport.DistributeResponse{Success: false, Reason: reason}
}

func toAssignmentResponse(a repository.Assignment) transport.AssignmentResponse {
	return transport.AssignmentResponse{
		ID:         a.ID,
		LeadID:     a.LeadID,
		AgencyID:   a.AgencyID,
		Status:     a.Status,
		Reason:     a.Reason,
		Note:       a.Note,
		AssignedAt: a.AssignedAt.Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.Format(time.RFC3339),
	}
}
