// Package email sends fulfillment mail through Resend. Fulfillment email is
// best-effort everywhere in this service: callers log failures and move on.
package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Message is a single outbound email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender is the outbound email surface. Tests substitute a recording fake.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// NopSender discards all mail. Used when no email provider is configured.
type NopSender struct{}

func (NopSender) Send(context.Context, Message) error { return nil }

// ResendSender implements Sender with the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, m Message) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      m.To,
		Subject: m.Subject,
		Html:    m.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend: send: %w", err)
	}
	return nil
}
