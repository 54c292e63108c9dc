package service

import (
	"context"

	"github.com/google/uuid"

	"leadmarket_backend/internal/distribution/domain"
	"leadmarket_backend/internal/distribution/transport"
)

// Stats returns the distribution rollup, optionally scoped to one territory.
func (s *Service) Stats(ctx context.Context, territory *domain.Territory) (transport.StatsResponse, error) {
	stats, err := s.repo.DistributionStats(ctx, territory)
	if err != nil {
		return transport.StatsResponse{}, err
	}

	return transport.StatsResponse{
		EligibleAgencies:  stats.EligibleAgencies,
		ActiveAssignments: stats.ActiveAssignments,
		Rejections:        stats.Rejections,
		Reassignments:     stats.Reassignments,
		UnassignedLeads:   stats.UnassignedLeads,
	}, nil
}

// FindEligibleAgencies is a dry run of the eligibility stages for a
// hypothetical lead in the given territory and industry. Nothing is
// assigned or advanced.
func (s *Service) FindEligibleAgencies(ctx context.Context, territory domain.Territory, industry string) (transport.EligibilityResponse, error) {
	geo := geographyFor(territory)

	candidates, err := s.repo.ResolveOwners(ctx, geo)
	if err != nil {
		return transport.EligibilityResponse{}, err
	}

	eligible := domain.OrderCandidates(domain.FilterEligible(candidates, industry))

	agencies := make([]transport.EligibleAgencyResponse, 0, len(eligible))
	for _, c := range eligible {
		entry := transport.EligibleAgencyResponse{
			AgencyID:           c.AgencyID,
			Name:               c.AgencyName,
			SubscriptionStatus: c.SubscriptionStatus,
			Priority:           c.Priority,
			ActiveLeads:        c.ActiveLeads,
			HasCapacity:        c.Capacity.HasRoom(c.ActiveLeads),
		}
		if max, bounded := c.Capacity.Max(); bounded {
			entry.MaxLeads = &max
		}
		agencies = append(agencies, entry)
	}

	return transport.EligibilityResponse{Agencies: agencies, Total: len(agencies)}, nil
}

// FilterBySubscriptionLimits narrows a set of agencies to those in billable
// standing with room for another lead.
func (s *Service) FilterBySubscriptionLimits(ctx context.Context, req transport.CapacityFilterRequest) (transport.EligibilityResponse, error) {
	snapshots, err := s.repo.ListAgencyCapacity(ctx, req.AgencyIDs)
	if err != nil {
		return transport.EligibilityResponse{}, err
	}

	agencies := make([]transport.EligibleAgencyResponse, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if !domain.SubscriptionBillable(snapshot.SubscriptionStatus) {
			continue
		}
		capacity := domain.CapacityFromPlan(snapshot.MaxLeads)
		if !capacity.HasRoom(snapshot.ActiveLeads) {
			continue
		}
		agencies = append(agencies, transport.EligibleAgencyResponse{
			AgencyID:           snapshot.AgencyID,
			Name:               snapshot.Name,
			SubscriptionStatus: snapshot.SubscriptionStatus,
			ActiveLeads:        snapshot.ActiveLeads,
			MaxLeads:           snapshot.MaxLeads,
			HasCapacity:        true,
		})
	}

	return transport.EligibilityResponse{Agencies: agencies, Total: len(agencies)}, nil
}

// AssignmentHistory returns a lead's assignment rows, newest first. The
// lead is loaded first so an unknown ID yields NotFound, not an empty list.
func (s *Service) AssignmentHistory(ctx context.Context, leadID uuid.UUID) ([]transport.AssignmentResponse, error) {
	if _, err := s.repo.GetLead(ctx, leadID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.ListAssignmentsForLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toAssignmentResponse(a))
	}
	return responses, nil
}

func geographyFor(territory domain.Territory) domain.Geography {
	switch territory.Type {
	case domain.TerritoryZipcode:
		return domain.Geography{Zipcode: territory.Value}
	case domain.TerritoryCity:
		return domain.Geography{City: territory.Value}
	case domain.TerritoryCounty:
		return domain.Geography{County: territory.Value}
	default:
		return domain.Geography{State: territory.Value}
	}
}
