package service

import (
	"context"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/transport"
)

const defaultBatchLimit = 50

// BatchDistribute drives distribution over a set of leads, bounded by limit.
// Each lead's outcome is recorded independently: a benign failure or even a
// persistence error for one lead never aborts the rest of the batch.
func (s *Service) BatchDistribute(ctx context.Context, leadIDs []uuid.UUID, limit int) (transport.BatchDistributeResponse, error) {
	if limit < 1 {
		limit = defaultBatchLimit
	}

	if len(leadIDs) == 0 {
		swept, err := s.repo.ListUnassignedLeadIDs(ctx, limit)
		if err != nil {
			return transport.BatchDistributeResponse{}, err
		}
		leadIDs = swept
	}
	if len(leadIDs) > limit {
		leadIDs = leadIDs[:limit]
	}

	response := transport.BatchDistributeResponse{
		Total:       len(leadIDs),
		Assignments: make([]transport.AssignmentResponse, 0, len(leadIDs)),
		Errors:      make([]transport.BatchError, 0),
	}

	for _, leadID := range leadIDs {
		result, err := s.DistributeLead(ctx, leadID)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, transport.BatchError{
				LeadID: leadID,
				Reason: err.Error(),
			})
			continue
		}

		if !result.Success {
			response.Failed++
			response.Errors = append(response.Errors, transport.BatchError{
				LeadID: leadID,
				Reason: result.Reason,
			})
			continue
		}

		response.Successful++
		response.Assignments = append(response.Assignments, *result.Assignment)
	}

	s.log.Info("batch distribution complete",
		"total", response.Total,
		"successful", response.Successful,
		"failed", response.Failed,
	)
	return response, nil
}
