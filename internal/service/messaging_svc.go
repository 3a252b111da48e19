package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/webhook"
)

var ErrNoRecipient = errors.New("no_recipient_for_channel")

// RenderTemplate substitutes {{first_name}}-style placeholders. Unknown
// placeholders pass through untouched so a typo is visible, not silent.
func RenderTemplate(content string, c *domain.Customer) string {
	r := strings.NewReplacer(
		"{{first_name}}", c.FirstName,
		"{{last_name}}", c.LastName,
		"{{name}}", c.FullName(),
	)
	return r.Replace(content)
}

// The narrow read/append interfaces keep the dispatch contract testable;
// the gorm repos satisfy them.
type customerReader interface {
	ByID(ctx context.Context, id string) (*domain.Customer, error)
}

type sequenceReader interface {
	ByDay(ctx context.Context, day int) (*domain.MessageSequence, error)
}

type commsLog interface {
	Append(ctx context.Context, e *domain.CommunicationLog) error
	ByCustomer(ctx context.Context, customerID string, limit int) ([]domain.CommunicationLog, error)
}

type MessagingSvc struct {
	customers customerReader
	sequences sequenceReader
	comms     commsLog
	sender    webhook.Sender
	log       zerolog.Logger
	now       func() time.Time
}

func NewMessagingSvc(cu customerReader, sq sequenceReader, cm commsLog, sender webhook.Sender) *MessagingSvc {
	return &MessagingSvc{
		customers: cu,
		sequences: sq,
		comms:     cm,
		sender:    sender,
		log:       zerolog.New(os.Stdout).With().Timestamp().Str("component", "messaging").Logger(),
		now:       time.Now,
	}
}

// SendSequence dispatches one touchpoint to one customer. Webhook failure
// is non-fatal: the communications log always records the attempt, with
// delivery_status telling what actually happened.
func (s *MessagingSvc) SendSequence(ctx context.Context, customerID string, day int) (*domain.CommunicationLog, error) {
	c, err := s.customers.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	seq, err := s.sequences.ByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, c, "nurture", seq.MessageType, seq.Subject, seq.Content, fmt.Sprintf("Day %d", seq.Day))
}

// SendNotice sends an ad-hoc transactional message (booking confirmations
// from the notify worker come through here).
func (s *MessagingSvc) SendNotice(ctx context.Context, customerID string, channel domain.MessageChannel, subject, content string) (*domain.CommunicationLog, error) {
	c, err := s.customers.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, c, "booking_notice", channel, subject, content, "")
}

func (s *MessagingSvc) dispatch(ctx context.Context, c *domain.Customer, msgType string, channel domain.MessageChannel, subject, content, day string) (*domain.CommunicationLog, error) {
	recipient := c.Email
	if channel == domain.ChannelText {
		recipient = c.Phone
	}
	if recipient == "" {
		return nil, ErrNoRecipient
	}

	rendered := RenderTemplate(content, c)
	entry := &domain.CommunicationLog{
		CustomerID:     c.ID,
		Type:           msgType,
		Channel:        channel,
		Subject:        RenderTemplate(subject, c),
		Content:        rendered,
		Recipient:      recipient,
		DeliveryStatus: domain.DeliverySent,
		SentAt:         s.now(),
	}

	if err := s.sender.Send(ctx, webhook.Payload{
		Day:             day,
		Recipient:       recipient,
		CustomerMessage: rendered,
		CustomerName:    c.FullName(),
		MessageType:     string(channel),
	}); err != nil {
		s.log.Warn().Err(err).Str("customer_id", c.ID).Msg("webhook dispatch failed")
		entry.DeliveryStatus = domain.DeliveryFailed
		entry.ErrorDetail = err.Error()
	}

	if err := s.comms.Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("append communications log: %w", err)
	}
	return entry, nil
}

func (s *MessagingSvc) History(ctx context.Context, customerID string, limit int) ([]domain.CommunicationLog, error) {
	return s.comms.ByCustomer(ctx, customerID, limit)
}
