package mailer

import (
	"context"
	"fmt"
	"strings"

	mail "gopkg.in/mail.v2"

	"waves-backend/internal/domain"
)

// SMTP sends mail through a plain SMTP relay.
type SMTP struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{
		dialer: mail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTP) send(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (s *SMTP) SendWelcome(_ context.Context, email, name string) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to Waves. Your account is ready.\n", name)
	return s.send(email, "Welcome to Waves", body)
}

func (s *SMTP) SendPasswordReset(_ context.Context, email, name, resetToken string) error {
	body := fmt.Sprintf("Hi %s,\n\nUse this token to reset your password: %s\nIt expires in 24 hours.\n", name, resetToken)
	return s.send(email, "Password reset", body)
}

func (s *SMTP) SendPurchase(_ context.Context, email, name string, payment domain.Payment) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your purchase.\n\nItems:\n", name)
	for _, line := range payment.Product {
		fmt.Fprintf(&b, "  - product %s x%d\n", line.ProductID, line.Quantity)
	}
	if po, ok := payment.Data["porder"].(string); ok {
		fmt.Fprintf(&b, "\nOrder reference: %s\n", po)
	}
	return s.send(email, "Your order confirmation", b.String())
}
