// Package notification emails agencies when leads are routed to them.
// It subscribes to distribution events and never participates in the
// assignment transaction: a failed send is logged, not retried, and the
// assignment stands.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadmarket_backend/internal/email"
	"leadmarket_backend/internal/events"
	"leadmarket_backend/internal/notification/repository"
	"leadmarket_backend/platform/logger"
)

// Module wires distribution events to agency email notifications.
type Module struct {
	repo   *repository.Repo
	sender email.Sender
	log    *logger.Logger
}

// NewModule creates the notification module.
func NewModule(pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) *Module {
	return &Module{
		repo:   repository.New(pool),
		sender: sender,
		log:    log,
	}
}

// RegisterHandlers subscribes the module to distribution events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))
	bus.Subscribe(events.LeadReassigned{}.EventName(), events.HandlerFunc(m.onLeadReassigned))
}

func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return fmt.Errorf("unexpected event type for %s", event.EventName())
	}

	contact, summary, err := m.lookup(ctx, e.AgencyID, e.LeadID)
	if err != nil {
		return err
	}

	if err := m.sender.SendLeadAssignedEmail(ctx, contact.Email, contact.Name, summary.Name, summary.Industry, summary.Location); err != nil {
		return fmt.Errorf("send lead assigned email: %w", err)
	}

	m.log.Info("lead assigned notification sent",
		"lead_id", e.LeadID.String(), "agency_id", e.AgencyID.String())
	return nil
}

func (m *Module) onLeadReassigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadReassigned)
	if !ok {
		return fmt.Errorf("unexpected event type for %s", event.EventName())
	}

	contact, summary, err := m.lookup(ctx, e.ToAgencyID, e.LeadID)
	if err != nil {
		return err
	}

	if err := m.sender.SendLeadReassignedEmail(ctx, contact.Email, contact.Name, summary.Name, summary.Industry, summary.Location); err != nil {
		return fmt.Errorf("send lead reassigned email: %w", err)
	}

	m.log.Info("lead reassigned notification sent",
		"lead_id", e.LeadID.String(), "agency_id", e.ToAgencyID.String())
	return nil
}

func (m *Module) lookup(ctx context.Context, agencyID, leadID uuid.UUID) (repository.AgencyContact, repository.LeadSummary, error) {
	contact, err := m.repo.GetAgencyContact(ctx, agencyID)
	if err != nil {
		return repository.AgencyContact{}, repository.LeadSummary{}, err
	}
	summary, err := m.repo.GetLeadSummary(ctx, leadID)
	if err != nil {
		return repository.AgencyContact{}, repository.LeadSummary{}, err
	}
	return contact, summary, nil
}
