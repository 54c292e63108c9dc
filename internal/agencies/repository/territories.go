package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"leadmarket_backend/platform/apperr"
)

const territoryNotFoundMessage = "territory not found"

const territoryColumns = "id, agency_id, territory_type, territory_value, priority, is_active, created_at, updated_at"

func scanTerritory(row pgx.Row) (Territory, error) {
	var t Territory
	err := row.Scan(
		&t.ID, &t.AgencyID, &t.Type, &t.Value,
		&t.Priority, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// AddTerritory inserts an ownership row for an agency. Values are stored
// lower-cased so eligibility matching stays case-insensitive.
func (r *Repo) AddTerritory(ctx context.Context, params CreateTerritoryParams) (Territory, error) {
	query := `
		INSERT INTO territories (id, agency_id, territory_type, territory_value, priority)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + territoryColumns

	territory, err := scanTerritory(r.pool.QueryRow(ctx, query,
		uuid.New(), params.AgencyID, params.Type,
		strings.ToLower(strings.TrimSpace(params.Value)), params.Priority,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return Territory{}, apperr.Conflict("agency already owns this territory")
			case foreignKeyViolation:
				return Territory{}, apperr.NotFound(agencyNotFoundMessage)
			}
		}
		return Territory{}, fmt.Errorf("add territory: %w", err)
	}

	return territory, nil
}

// ListTerritories returns all ownership rows for an agency, most specific
// territory types first.
func (r *Repo) ListTerritories(ctx context.Context, agencyID uuid.UUID) ([]Territory, error) {
	query := `
		SELECT ` + territoryColumns + `
		FROM territories
		WHERE agency_id = $1
		ORDER BY array_position(ARRAY['zipcode','city','county','state'], territory_type), territory_value`

	rows, err := r.pool.Query(ctx, query, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list territories: %w", err)
	}
	defer rows.Close()

	territories := make([]Territory, 0)
	for rows.Next() {
		territory, err := scanTerritory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan territory: %w", err)
		}
		territories = append(territories, territory)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate territories: %w", err)
	}

	return territories, nil
}

// SetTerritoryActive toggles an ownership row in or out of the eligibility
// pool without losing its rotation history.
func (r *Repo) SetTerritoryActive(ctx context.Context, id uuid.UUID, active bool) (Territory, error) {
	query := `
		UPDATE territories
		SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + territoryColumns

	territory, err := scanTerritory(r.pool.QueryRow(ctx, query, id, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Territory{}, apperr.NotFound(territoryNotFoundMessage)
		}
		return Territory{}, fmt.Errorf("set territory active: %w", err)
	}

	return territory, nil
}

// SetTerritoryPriority changes the rotation weight of an ownership row.
func (r *Repo) SetTerritoryPriority(ctx context.Context, id uuid.UUID, priority int) (Territory, error) {
	query := `
		UPDATE territories
		SET priority = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + territoryColumns

	territory, err := scanTerritory(r.pool.QueryRow(ctx, query, id, priority))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Territory{}, apperr.NotFound(territoryNotFoundMessage)
		}
		return Territory{}, fmt.Errorf("set territory priority: %w", err)
	}

	return territory, nil
}

// ListConflicts reports geography units actively owned by more than one
// agency. Shared ownership is allowed; the report exists so operators can
// review rotation pressure on contested territories.
func (r *Repo) ListConflicts(ctx context.Context) ([]TerritoryConflict, error) {
	query := `
		SELECT t.territory_type, t.territory_value, t.agency_id, a.name, t.priority
		FROM territories t
		JOIN agencies a ON a.id = t.agency_id
		WHERE t.is_active = true
		  AND (t.territory_type, t.territory_value) IN (
			SELECT territory_type, territory_value
			FROM territories
			WHERE is_active = true
			GROUP BY territory_type, territory_value
			HAVING count(DISTINCT agency_id) > 1
		  )
		ORDER BY t.territory_type, t.territory_value, t.priority DESC, a.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list territory conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := make([]TerritoryConflict, 0)
	for rows.Next() {
		var (
			territoryType, territoryValue string
			owner                         ConflictOwner
		)
		if err := rows.Scan(&territoryType, &territoryValue, &owner.AgencyID, &owner.AgencyName, &owner.Priority); err != nil {
			return nil, fmt.Errorf("scan territory conflict: %w", err)
		}

		last := len(conflicts) - 1
		if last >= 0 && conflicts[last].Type == territoryType && conflicts[last].Value == territoryValue {
			conflicts[last].Owners = append(conflicts[last].Owners, owner)
			continue
		}
		conflicts = append(conflicts, TerritoryConflict{
			Type:   territoryType,
			Value:  territoryValue,
			Owners: []ConflictOwner{owner},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate territory conflicts: %w", err)
	}

	return conflicts, nil
}
