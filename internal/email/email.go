// Package email delivers agency-facing notification mail.
package email

import "context"

// Sender delivers notification emails to agencies.
type Sender interface {
	SendLeadAssignedEmail(ctx context.Context, toEmail, agencyName, leadName, industry, location string) error
	SendLeadReassignedEmail(ctx context.Context, toEmail, agencyName, leadName, industry, location string) error
}

// NoopSender is used when no SMTP server is configured. Sends succeed
// without delivering anything.
type NoopSender struct{}

func (NoopSender) SendLeadAssignedEmail(ctx context.Context, toEmail, agencyName, leadName, industry, location string) error {
	return nil
}

func (NoopSender) SendLeadReassignedEmail(ctx context.Context, toEmail, agencyName, leadName, industry, location string) error {
	return nil
}
