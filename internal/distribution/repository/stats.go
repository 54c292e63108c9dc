package repository

import (
	"context"
	"fmt"

	"leadmarket_backend/internal/distribution/domain"
	leadsdomain "leadmarket_backend/internal/leads/domain"
)

// leadColumnFor maps a territory type to the leads column it matches.
func leadColumnFor(territoryType domain.TerritoryType) string {
	switch territoryType {
	case domain.TerritoryZipcode:
		return "zipcode"
	case domain.TerritoryCity:
		return "city"
	case domain.TerritoryCounty:
		return "county"
	default:
		return "state"
	}
}

// DistributionStats rolls up assignment history and eligibility counts,
// optionally scoped to one territory. Read-only.
func (r *Repo) DistributionStats(ctx context.Context, territory *domain.Territory) (Stats, error) {
	var stats Stats

	agencyQuery := `
		SELECT count(DISTINCT a.id)
		FROM agencies a
		JOIN territories t ON t.agency_id = a.id AND t.is_active = true
		WHERE a.subscription_status = ANY($1)`
	agencyArgs := []interface{}{[]string{domain.SubscriptionTrial, domain.SubscriptionActive}}
	if territory != nil {
		agencyQuery += " AND t.territory_type = $2 AND lower(t.territory_value) = lower($3)"
		agencyArgs = append(agencyArgs, string(territory.Type), territory.Value)
	}
	if err := r.pool.QueryRow(ctx, agencyQuery, agencyArgs...).Scan(&stats.EligibleAgencies); err != nil {
		return Stats{}, fmt.Errorf("count eligible agencies: %w", err)
	}

	assignmentQuery := `
		SELECT
			count(*) FILTER (WHERE s.status = $1),
			count(*) FILTER (WHERE s.status = $2),
			count(*) FILTER (WHERE s.status = $3)
		FROM assignments s
		JOIN leads l ON l.id = s.lead_id`
	assignmentArgs := []interface{}{AssignmentActive, AssignmentRejected, AssignmentReassigned}
	if territory != nil {
		assignmentQuery += fmt.Sprintf(" WHERE lower(l.%s) = lower($4)", leadColumnFor(territory.Type))
		assignmentArgs = append(assignmentArgs, territory.Value)
	}
	if err := r.pool.QueryRow(ctx, assignmentQuery, assignmentArgs...).Scan(
		&stats.ActiveAssignments, &stats.Rejections, &stats.Reassignments,
	); err != nil {
		return Stats{}, fmt.Errorf("count assignments: %w", err)
	}

	leadQuery := `SELECT count(*) FROM leads WHERE status = $1`
	leadArgs := []interface{}{leadsdomain.LeadStatusNew}
	if territory != nil {
		leadQuery += fmt.Sprintf(" AND lower(%s) = lower($2)", leadColumnFor(territory.Type))
		leadArgs = append(leadArgs, territory.Value)
	}
	if err := r.pool.QueryRow(ctx, leadQuery, leadArgs...).Scan(&stats.UnassignedLeads); err != nil {
		return Stats{}, fmt.Errorf("count unassigned leads: %w", err)
	}

	return stats, nil
}
