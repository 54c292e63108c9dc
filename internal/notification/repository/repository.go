// Package repository reads the contact details notifications need.
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

// AgencyContact is the delivery address for agency notifications.
type AgencyContact struct {
	Name  string
	Email string
}

// LeadSummary is the lead data included in notification mail.
type LeadSummary struct {
	Name     string
	Industry string
	Location string
}

// Repo reads notification data with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetAgencyContact returns the name and email of an agency.
func (r *Repo) GetAgencyContact(ctx context.Context, agencyID uuid.UUID) (AgencyContact, error) {
	var contact AgencyContact
	err := r.pool.QueryRow(ctx, `SELECT name, email FROM agencies WHERE id = $1`, agencyID).
		Scan(&contact.Name, &contact.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AgencyContact{}, apperr.NotFound("agency not found")
		}
		return AgencyContact{}, fmt.Errorf("get agency contact: %w", err)
	}

	return contact, nil
}

// GetLeadSummary returns the lead fields shown in notification mail. The
// location is the most specific populated geography field.
func (r *Repo) GetLeadSummary(ctx context.Context, leadID uuid.UUID) (LeadSummary, error) {
	var (
		summary                      LeadSummary
		zipcode, city, county, state *string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT name, industry, zipcode, city, county, state
		FROM leads
		WHERE id = $1`, leadID).
		Scan(&summary.Name, &summary.Industry, &zipcode, &city, &county, &state)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LeadSummary{}, apperr.NotFound("lead not found")
		}
		return LeadSummary{}, fmt.Errorf("get lead summary: %w", err)
	}

	for _, field := range []*string{zipcode, city, county, state} {
		if field != nil && strings.TrimSpace(*field) != "" {
			summary.Location = *field
			break
		}
	}

	return summary, nil
}
