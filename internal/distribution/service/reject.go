package service

import (
	"context"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/repository"
	"leadmarket_backend/internal/distribution/transport"
	"leadmarket_backend/internal/events"
	leadsdomain "leadmarket_backend/internal/leads/domain"
)

// Reject handles an agency's explicit rejection: the active assignment is
// archived, the lead is released, and the pipeline reruns with the rejecting
// agency excluded. Exhaustion (no other eligible agency) is a normal
// outcome that leaves the lead rejected.
func (s *Service) Reject(ctx context.Context, leadID, agencyID uuid.UUID, reason string) (transport.RejectResponse, error) {
	prior, err := s.repo.RejectActive(ctx, leadID, agencyID, reason)
	if err != nil {
		return transport.RejectResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadRejected{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		AgencyID:  agencyID,
		Reason:    reason,
	})

	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return transport.RejectResponse{}, err
	}

	replacement, err := s.runPipeline(ctx, lead,
		[]uuid.UUID{agencyID},
		[]string{leadsdomain.LeadStatusRejected},
		repository.ReasonReassigned,
	)
	if err != nil {
		if domain.Benign(err) {
			reason := domain.ReasonFor(err)
			s.log.Info("rejection exhausted eligible agencies",
				"leadId", leadID, "rejectedBy", agencyID, "reason", reason)
			return transport.RejectResponse{
				Reassigned: false,
				Reason:     reason,
			}, nil
		}
		return transport.RejectResponse{}, err
	}

	// The replacement exists; the prior row is superseded from rejected to
	// reassigned to keep the history readable.
	if err := s.repo.MarkReassigned(ctx, prior.ID); err != nil {
		return transport.RejectResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadReassigned{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       leadID,
		FromAgencyID: agencyID,
		ToAgencyID:   replacement.AgencyID,
		AssignmentID: replacement.ID,
	})

	response := toAssignmentResponse(replacement)
	return transport.RejectResponse{Reassigned: true, Assignment: &response}, nil
}
