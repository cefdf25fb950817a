package mailer

import (
	"context"

	"waves-backend/internal/domain"
)

// Mailer sends the transactional emails the shop produces. Implementations
// must be safe for concurrent use.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendPasswordReset(ctx context.Context, email, name, resetToken string) error
	SendPurchase(ctx context.Context, email, name string, payment domain.Payment) error
}

// Noop satisfies Mailer when no SMTP server is configured.
type Noop struct{}

func (Noop) SendWelcome(context.Context, string, string) error { return nil }

func (Noop) SendPasswordReset(context.Context, string, string, string) error { return nil }

func (Noop) SendPurchase(context.Context, string, string, domain.Payment) error { return nil }
