package scheduler

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/webhook"
)

// WebhookMailer routes queued emails through the same workflow webhook
// the nurture sends use.
type WebhookMailer struct {
	sender webhook.Sender
}

func NewWebhookMailer(sender webhook.Sender) *WebhookMailer {
	return &WebhookMailer{sender: sender}
}

func (m *WebhookMailer) SendEmail(ctx context.Context, recipient, subject, body string) error {
	// the webhook contract has no subject field; the automation splits on
	// the first line
	return m.sender.Send(ctx, webhook.Payload{
		Recipient:       recipient,
		CustomerMessage: subject + "\n\n" + body,
		MessageType:     "email",
	})
}

// ConsoleMailer just logs; handy when no webhook endpoint is configured.
type ConsoleMailer struct {
	log zerolog.Logger
}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{log: zerolog.New(os.Stdout).With().Timestamp().Str("component", "mailer").Logger()}
}

func (m *ConsoleMailer) SendEmail(_ context.Context, recipient, subject, _ string) error {
	m.log.Info().Str("recipient", recipient).Str("subject", subject).Msg("email (console)")
	return nil
}
