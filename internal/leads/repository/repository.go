// Package repository implements lead persistence with PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadmarket_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = "id, name, email, phone, zipcode, city, county, state, industry, source, notes, status, assigned_agency_id, created_at, updated_at"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.Name, &l.Email, &l.Phone,
		&l.Zipcode, &l.City, &l.County, &l.State,
		&l.Industry, &l.Source, &l.Notes, &l.Status,
		&l.AssignedAgencyID, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// Create inserts a new lead in status new.
func (r *Repo) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	query := `
		INSERT INTO leads (id, name, email, phone, zipcode, city, county, state, industry, source, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'new')
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		uuid.New(), params.Name, params.Email, params.Phone,
		params.Zipcode, params.City, params.County, params.State,
		strings.ToLower(strings.TrimSpace(params.Industry)), params.Source, params.Notes,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}

	return lead, nil
}

// GetByID retrieves a lead by its identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead: %w", err)
	}

	return lead, nil
}

// List returns a filtered page of leads plus the total match count,
// newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, params.Status)
		argPos++
	}
	if params.Industry != "" {
		conditions = append(conditions, fmt.Sprintf("industry = $%d", argPos))
		args = append(args, strings.ToLower(strings.TrimSpace(params.Industry)))
		argPos++
	}
	if params.AgencyID != nil {
		conditions = append(conditions, fmt.Sprintf("assigned_agency_id = $%d", argPos))
		args = append(args, *params.AgencyID)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT count(*) FROM leads WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM leads WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		leadColumns, where, argPos, argPos+1,
	)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0, params.Limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, total, nil
}

// UpdateStatus moves a lead to toStatus only if it currently holds one of
// fromStatuses. A zero-row update on an existing lead means the transition
// is not allowed from the current status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatuses []string, toStatus string) (Lead, error) {
	query := `
		UPDATE leads
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = ANY($3)
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, toStatus, fromStatuses))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return Lead{}, getErr
			}
			return Lead{}, apperr.Conflict("lead status does not allow this transition")
		}
		return Lead{}, fmt.Errorf("update lead status: %w", err)
	}

	return lead, nil
}
