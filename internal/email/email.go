package email

import (
	"context"

	"portfolio_backend/internal/leads/domain"
)

// Sender delivers operator-facing notification emails.
type Sender interface {
	// SendHotLeadAlert notifies the site owner that a chat visitor scored
	// as a hot lead. Language is the visitor's chat language.
	SendHotLeadAlert(ctx context.Context, q domain.Qualification, language string) error
}

// NoopSender is used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendHotLeadAlert(ctx context.Context, q domain.Qualification, language string) error {
	return nil
}
