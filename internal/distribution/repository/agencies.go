package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ListAgencyCapacity returns standing snapshots for the given agencies.
// Unknown IDs are silently omitted.
func (r *Repo) ListAgencyCapacity(ctx context.Context, ids []uuid.UUID) ([]AgencyCapacity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, name, subscription_status, current_leads, max_leads
		FROM agencies
		WHERE id = ANY($1)
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list agency capacity: %w", err)
	}
	defer rows.Close()

	snapshots := make([]AgencyCapacity, 0, len(ids))
	for rows.Next() {
		var snapshot AgencyCapacity
		if err := rows.Scan(
			&snapshot.AgencyID, &snapshot.Name, &snapshot.SubscriptionStatus,
			&snapshot.ActiveLeads, &snapshot.MaxLeads,
		); err != nil {
			return nil, fmt.Errorf("scan agency capacity: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}
