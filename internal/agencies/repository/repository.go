// Package repository implements agency and territory persistence with
// PostgreSQL.
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

	"leadmarket_backend/platform/apperr"
)

const agencyNotFoundMessage = "agency not found"

// PostgreSQL error codes for duplicate keys and foreign key violations.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

const agencyColumns = "id, name, email, phone, industry, subscription_status, max_leads, current_leads, created_at, updated_at"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new agencies repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanAgency(row pgx.Row) (Agency, error) {
	var a Agency
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.Industry,
		&a.SubscriptionStatus, &a.MaxLeads, &a.CurrentLeads, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create inserts a new agency.
func (r *Repo) Create(ctx context.Context, params CreateAgencyParams) (Agency, error) {
	query := `
		INSERT INTO agencies (id, name, email, phone, industry, subscription_status, max_leads)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + agencyColumns

	agency, err := scanAgency(r.pool.QueryRow(ctx, query,
		uuid.New(), params.Name, params.Email, params.Phone,
		strings.ToLower(strings.TrimSpace(params.Industry)), params.SubscriptionStatus, params.MaxLeads,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Agency{}, apperr.Conflict("an agency with this email already exists")
		}
		return Agency{}, fmt.Errorf("create agency: %w", err)
	}

	return agency, nil
}

// GetByID retrieves an agency by its identifier.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Agency, error) {
	query := `SELECT ` + agencyColumns + ` FROM agencies WHERE id = $1`

	agency, err := scanAgency(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agency{}, apperr.NotFound(agencyNotFoundMessage)
		}
		return Agency{}, fmt.Errorf("get agency: %w", err)
	}

	return agency, nil
}

// List returns a filtered page of agencies plus the total match count.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Agency, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argPos := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argPos, argPos))
		args = append(args, "%"+params.Search+"%")
		argPos++
	}
	if params.SubscriptionStatus != "" {
		conditions = append(conditions, fmt.Sprintf("subscription_status = $%d", argPos))
		args = append(args, params.SubscriptionStatus)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT count(*) FROM agencies WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count agencies: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM agencies WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		agencyColumns, where, argPos, argPos+1,
	)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list agencies: %w", err)
	}
	defer rows.Close()

	agencies := make([]Agency, 0, params.Limit)
	for rows.Next() {
		agency, err := scanAgency(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan agency: %w", err)
		}
		agencies = append(agencies, agency)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate agencies: %w", err)
	}

	return agencies, total, nil
}

// Update applies the non-nil fields and returns the updated row.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateAgencyParams) (Agency, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}
	argPos := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Name != nil {
		appendSet("name", *params.Name)
	}
	if params.Email != nil {
		appendSet("email", *params.Email)
	}
	if params.Phone != nil {
		appendSet("phone", *params.Phone)
	}
	if params.Industry != nil {
		appendSet("industry", strings.ToLower(strings.TrimSpace(*params.Industry)))
	}
	if params.SubscriptionStatus != nil {
		appendSet("subscription_status", *params.SubscriptionStatus)
	}
	if params.ClearMaxLeads {
		sets = append(sets, "max_leads = NULL")
	} else if params.MaxLeads != nil {
		appendSet("max_leads", *params.MaxLeads)
	}

	query := fmt.Sprintf(
		"UPDATE agencies SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), argPos, agencyColumns,
	)
	args = append(args, id)

	agency, err := scanAgency(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Agency{}, apperr.NotFound(agencyNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Agency{}, apperr.Conflict("an agency with this email already exists")
		}
		return Agency{}, fmt.Errorf("update agency: %w", err)
	}

	return agency, nil
}

// Delete removes an agency and its territories. Assignment history keeps
// its agency reference for auditing.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete agency: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM territories WHERE agency_id = $1`, id); err != nil {
		return fmt.Errorf("delete agency territories: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM agencies WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return apperr.Conflict("agency has assignment history and cannot be deleted")
		}
		return fmt.Errorf("delete agency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(agencyNotFoundMessage)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete agency: %w", err)
	}

	return nil
}
