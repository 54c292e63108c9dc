package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadmarket_backend/internal/agencies/repository"
	"leadmarket_backend/internal/agencies/transport"
	"leadmarket_backend/platform/apperr"
)

// AddTerritory grants an agency ownership of a geography unit.
func (s *Service) AddTerritory(ctx context.Context, agencyID uuid.UUID, req transport.AddTerritoryRequest) (transport.TerritoryResponse, error) {
	// Surface a clear not-found for unknown agencies before touching
	// the ownership table.
	if _, err := s.repo.GetByID(ctx, agencyID); err != nil {
		return transport.TerritoryResponse{}, err
	}

	territory, err := s.repo.AddTerritory(ctx, repository.CreateTerritoryParams{
		AgencyID: agencyID,
		Type:     req.Type,
		Value:    req.Value,
		Priority: req.Priority,
	})
	if err != nil {
		return transport.TerritoryResponse{}, err
	}

	s.log.Info("territory granted",
		"agency_id", agencyID.String(),
		"territory_type", territory.Type,
		"territory_value", territory.Value,
	)

	return toTerritoryResponse(territory), nil
}

// ListTerritories returns all ownership rows for an agency.
func (s *Service) ListTerritories(ctx context.Context, agencyID uuid.UUID) ([]transport.TerritoryResponse, error) {
	if _, err := s.repo.GetByID(ctx, agencyID); err != nil {
		return nil, err
	}

	territories, err := s.repo.ListTerritories(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	out := make([]transport.TerritoryResponse, 0, len(territories))
	for _, territory := range territories {
		out = append(out, toTerritoryResponse(territory))
	}

	return out, nil
}

// UpdateTerritory toggles activation or changes the priority of an
// ownership row.
func (s *Service) UpdateTerritory(ctx context.Context, id uuid.UUID, req transport.UpdateTerritoryRequest) (transport.TerritoryResponse, error) {
	if req.IsActive == nil && req.Priority == nil {
		return transport.TerritoryResponse{}, apperr.Validation("nothing to update")
	}

	var (
		territory repository.Territory
		err       error
	)
	if req.IsActive != nil {
		territory, err = s.repo.SetTerritoryActive(ctx, id, *req.IsActive)
		if err != nil {
			return transport.TerritoryResponse{}, err
		}
	}
	if req.Priority != nil {
		territory, err = s.repo.SetTerritoryPriority(ctx, id, *req.Priority)
		if err != nil {
			return transport.TerritoryResponse{}, err
		}
	}

	return toTerritoryResponse(territory), nil
}

// ConflictReport lists geography units actively owned by multiple agencies.
func (s *Service) ConflictReport(ctx context.Context) (transport.ConflictReportResponse, error) {
	conflicts, err := s.repo.ListConflicts(ctx)
	if err != nil {
		return transport.ConflictReportResponse{}, err
	}

	out := make([]transport.ConflictResponse, 0, len(conflicts))
	for _, conflict := range conflicts {
		owners := make([]transport.ConflictOwnerResponse, 0, len(conflict.Owners))
		for _, owner := range conflict.Owners {
			owners = append(owners, transport.ConflictOwnerResponse{
				AgencyID:   owner.AgencyID.String(),
				AgencyName: owner.AgencyName,
				Priority:   owner.Priority,
			})
		}
		out = append(out, transport.ConflictResponse{
			Type:   conflict.Type,
			Value:  conflict.Value,
			Owners: owners,
		})
	}

	return transport.ConflictReportResponse{Conflicts: out, Total: len(out)}, nil
}

func toTerritoryResponse(t repository.Territory) transport.TerritoryResponse {
	return transport.TerritoryResponse{
		ID:        t.ID.String(),
		AgencyID:  t.AgencyID.String(),
		Type:      t.Type,
		Value:     t.Value,
		Priority:  t.Priority,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}
