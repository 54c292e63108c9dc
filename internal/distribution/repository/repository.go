// Package repository implements the distribution engine's persistence with
// PostgreSQL. All multi-effect transitions run in a single transaction so
// callers never observe partial state.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadmarket_backend/internal/distribution/domain"
	leadsdomain "leadmarket_backend/internal/leads/domain"
	"leadmarket_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

// uniqueViolation is the PostgreSQL error code raised by the partial unique
// index guarding the single-active-assignment invariant.
const uniqueViolation = "23505"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new distribution repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetLead retrieves the engine's view of a lead.
func (r *Repo) GetLead(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `
		SELECT id, zipcode, city, county, state, industry, status, assigned_agency_id, created_at, updated_at
		FROM leads
		WHERE id = $1`

	var lead Lead
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&lead.ID, &lead.Zipcode, &lead.City, &lead.County, &lead.State,
		&lead.Industry, &lead.Status, &lead.AssignedAgencyID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}

	return lead, nil
}

// ListUnassignedLeadIDs returns leads still waiting for distribution,
// oldest first.
func (r *Repo) ListUnassignedLeadIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM leads
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, leadsdomain.LeadStatusNew, limit)
	if err != nil {
		return nil, fmt.Errorf("list unassigned leads: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0, limit)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unassigned lead: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ResolveOwners returns all active ownership matches for the geography in a
// single query, tagged with the matched territory and priority.
func (r *Repo) ResolveOwners(ctx context.Context, geo domain.Geography) ([]domain.Candidate, error) {
	return r.resolveOwners(ctx, geo, nil)
}

// ResolveAgencyOwnership is ResolveOwners restricted to one agency.
func (r *Repo) ResolveAgencyOwnership(ctx context.Context, agencyID uuid.UUID, geo domain.Geography) ([]domain.Candidate, error) {
	return r.resolveOwners(ctx, geo, &agencyID)
}

func (r *Repo) resolveOwners(ctx context.Context, geo domain.Geography, agencyID *uuid.UUID) ([]domain.Candidate, error) {
	territories := geo.Territories()
	if len(territories) == 0 {
		return nil, nil
	}

	conditions := make([]string, 0, len(territories))
	args := make([]interface{}, 0, len(territories)*2+1)
	for _, t := range territories {
		conditions = append(conditions, fmt.Sprintf(
			"(t.territory_type = $%d AND lower(t.territory_value) = lower($%d))",
			len(args)+1, len(args)+2,
		))
		args = append(args, string(t.Type), t.Value)
	}

	query := `
		SELECT a.id, a.name, a.industry, a.subscription_status, a.current_leads, a.max_leads,
		       t.territory_type, t.territory_value, t.priority
		FROM territories t
		JOIN agencies a ON a.id = t.agency_id
		WHERE t.is_active = true AND (` + strings.Join(conditions, " OR ") + `)`

	if agencyID != nil {
		query += fmt.Sprintf(" AND a.id = $%d", len(args)+1)
		args = append(args, *agencyID)
	}
	query += " ORDER BY t.priority DESC, a.id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve owners: %w", err)
	}
	defer rows.Close()

	candidates := make([]domain.Candidate, 0)
	for rows.Next() {
		var c domain.Candidate
		var maxLeads *int
		var territoryType string
		if err := rows.Scan(
			&c.AgencyID, &c.AgencyName, &c.Industry, &c.SubscriptionStatus,
			&c.ActiveLeads, &maxLeads, &territoryType, &c.Territory.Value, &c.Priority,
		); err != nil {
			return nil, fmt.Errorf("scan owner candidate: %w", err)
		}
		c.Territory.Type = domain.TerritoryType(territoryType)
		c.Capacity = domain.CapacityFromPlan(maxLeads)
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// LastAssigned reads the cursor's last-assigned agency, nil when the cursor
// has not been created yet.
func (r *Repo) LastAssigned(ctx context.Context, key domain.CursorKey) (*uuid.UUID, error) {
	query := `
		SELECT last_agency_id
		FROM round_robin_cursors
		WHERE territory_type = $1 AND territory_value = $2 AND industry = $3`

	var lastAgencyID *uuid.UUID
	err := r.pool.QueryRow(ctx, query, string(key.TerritoryType), key.TerritoryValue, key.Industry).Scan(&lastAgencyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rotation cursor: %w", err)
	}
	return lastAgencyID, nil
}

// Assign performs the four assignment effects as one transaction:
// conditional lead update, assignment insert, guarded counter increment,
// and cursor advance.
func (r *Repo) Assign(ctx context.Context, params AssignParams) (Assignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Assignment{}, fmt.Errorf("begin assign: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE leads
		SET status = $3, assigned_agency_id = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($4)`,
		params.LeadID, params.AgencyID, leadsdomain.LeadStatusAssigned, params.ExpectedStatuses,
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("conditional lead update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Assignment{}, domain.ErrAlreadyAssigned
	}

	tag, err = tx.Exec(ctx, `
		UPDATE agencies
		SET current_leads = current_leads + 1, updated_at = now()
		WHERE id = $1 AND (max_leads IS NULL OR current_leads < max_leads)`,
		params.AgencyID,
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("increment agency counter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Assignment{}, domain.ErrCapacityExceeded
	}

	assignment := Assignment{
		ID:       uuid.New(),
		LeadID:   params.LeadID,
		AgencyID: params.AgencyID,
		Status:   AssignmentActive,
		Reason:   params.Reason,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO assignments (id, lead_id, agency_id, status, reason, assigned_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING assigned_at, updated_at`,
		assignment.ID, assignment.LeadID, assignment.AgencyID, assignment.Status, assignment.Reason,
	).Scan(&assignment.AssignedAt, &assignment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Assignment{}, domain.ErrAlreadyAssigned
		}
		return Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}

	cursorQuery := `
		INSERT INTO round_robin_cursors (territory_type, territory_value, industry, last_agency_id, rotation_index, updated_at)
		VALUES ($1, $2, $3, $4, 1, now())
		ON CONFLICT (territory_type, territory_value, industry) DO UPDATE
		SET last_agency_id = EXCLUDED.last_agency_id,
		    rotation_index = round_robin_cursors.rotation_index + 1,
		    updated_at = now()`
	cursorArgs := []interface{}{
		string(params.CursorKey.TerritoryType), params.CursorKey.TerritoryValue,
		params.CursorKey.Industry, params.AgencyID,
	}
	if params.CursorGuard != nil {
		// Compare-and-set: the conflicting update only applies when the
		// cursor still holds the value selection observed. A concurrent
		// assignment in the same rotation leaves zero rows affected and
		// the whole transaction rolls back.
		cursorQuery += `
		WHERE round_robin_cursors.last_agency_id IS NOT DISTINCT FROM $5`
		cursorArgs = append(cursorArgs, params.CursorGuard.LastAgencyID)
	}
	tag, err = tx.Exec(ctx, cursorQuery, cursorArgs...)
	if err != nil {
		return Assignment{}, fmt.Errorf("advance rotation cursor: %w", err)
	}
	if params.CursorGuard != nil && tag.RowsAffected() == 0 {
		return Assignment{}, domain.ErrCursorConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return Assignment{}, fmt.Errorf("commit assign: %w", err)
	}
	return assignment, nil
}

// RejectActive archives the active assignment for the lead/agency pair and
// releases the lead and the agency's capacity slot.
func (r *Repo) RejectActive(ctx context.Context, leadID, agencyID uuid.UUID, note string) (Assignment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Assignment{}, fmt.Errorf("begin reject: %w", err)
	}
	defer tx.Rollback(ctx)

	assignment := Assignment{
		LeadID:   leadID,
		AgencyID: agencyID,
		Status:   AssignmentRejected,
	}
	var storedNote *string
	if strings.TrimSpace(note) != "" {
		trimmed := strings.TrimSpace(note)
		storedNote = &trimmed
	}
	err = tx.QueryRow(ctx, `
		UPDATE assignments
		SET status = $3, note = $4, updated_at = now()
		WHERE lead_id = $1 AND agency_id = $2 AND status = $5
		RETURNING id, reason, note, assigned_at, updated_at`,
		leadID, agencyID, AssignmentRejected, storedNote, AssignmentActive,
	).Scan(&assignment.ID, &assignment.Reason, &assignment.Note, &assignment.AssignedAt, &assignment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, apperr.NotFound("no active assignment for this lead and agency")
		}
		return Assignment{}, fmt.Errorf("archive assignment: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE leads
		SET status = $2, assigned_agency_id = NULL, updated_at = now()
		WHERE id = $1`,
		leadID, leadsdomain.LeadStatusRejected,
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("release lead: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE agencies
		SET current_leads = GREATEST(current_leads - 1, 0), updated_at = now()
		WHERE id = $1`,
		agencyID,
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("decrement agency counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Assignment{}, fmt.Errorf("commit reject: %w", err)
	}
	return assignment, nil
}

// MarkReassigned supersedes a rejected assignment row once a replacement
// assignment exists.
func (r *Repo) MarkReassigned(ctx context.Context, assignmentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE assignments
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3`,
		assignmentID, AssignmentReassigned, AssignmentRejected,
	)
	if err != nil {
		return fmt.Errorf("mark reassigned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("rejected assignment not found")
	}
	return nil
}

// ListAssignmentsForLead returns the full assignment history for a lead,
// newest first.
func (r *Repo) ListAssignmentsForLead(ctx context.Context, leadID uuid.UUID) ([]Assignment, error) {
	query := `
		SELECT id, lead_id, agency_id, status, reason, note, assigned_at, updated_at
		FROM assignments
		WHERE lead_id = $1
		ORDER BY assigned_at DESC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]Assignment, 0)
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.LeadID, &a.AgencyID, &a.Status, &a.Reason, &a.Note, &a.AssignedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
