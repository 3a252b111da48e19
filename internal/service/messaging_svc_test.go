package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/webhook"
)

func TestRenderTemplate(t *testing.T) {
	c := &domain.Customer{FirstName: "Maya", LastName: "Chen"}

	tests := []struct {
		in   string
		want string
	}{
		{"Hi {{first_name}}!", "Hi Maya!"},
		{"Dear {{name}},", "Dear Maya Chen,"},
		{"{{first_name}} {{last_name}}", "Maya Chen"},
		{"no placeholders here", "no placeholders here"},
		{"unknown {{nickname}} stays", "unknown {{nickname}} stays"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenderTemplate(tt.in, c))
	}
}

type fakeCustomers struct{ c *domain.Customer }

func (f *fakeCustomers) ByID(_ context.Context, _ string) (*domain.Customer, error) {
	return f.c, nil
}

type fakeSequences struct{ seq *domain.MessageSequence }

func (f *fakeSequences) ByDay(_ context.Context, _ int) (*domain.MessageSequence, error) {
	return f.seq, nil
}

type fakeComms struct{ entries []domain.CommunicationLog }

func (f *fakeComms) Append(_ context.Context, e *domain.CommunicationLog) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeComms) ByCustomer(_ context.Context, _ string, _ int) ([]domain.CommunicationLog, error) {
	return f.entries, nil
}

type fakeSender struct {
	err      error
	payloads []webhook.Payload
}

func (f *fakeSender) Send(_ context.Context, p webhook.Payload) error {
	f.payloads = append(f.payloads, p)
	return f.err
}

func newTestMessaging(c *domain.Customer, seq *domain.MessageSequence, sender webhook.Sender) (*MessagingSvc, *fakeComms) {
	comms := &fakeComms{}
	svc := NewMessagingSvc(&fakeCustomers{c: c}, &fakeSequences{seq: seq}, comms, sender)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return svc, comms
}

func TestSendSequence(t *testing.T) {
	c := &domain.Customer{ID: "cus-1", FirstName: "Maya", LastName: "Chen", Email: "maya@example.com"}
	seq := &domain.MessageSequence{Day: 7, MessageType: domain.ChannelEmail, Subject: "Week one, {{first_name}}", Content: "Hi {{first_name}}, keep it up!"}
	sender := &fakeSender{}
	svc, comms := newTestMessaging(c, seq, sender)

	entry, err := svc.SendSequence(context.Background(), "cus-1", 7)
	require.NoError(t, err)

	require.Len(t, sender.payloads, 1)
	p := sender.payloads[0]
	assert.Equal(t, "Day 7", p.Day)
	assert.Equal(t, "maya@example.com", p.Recipient)
	assert.Equal(t, "Hi Maya, keep it up!", p.CustomerMessage)
	assert.Equal(t, "Maya Chen", p.CustomerName)
	assert.Equal(t, "email", p.MessageType)

	require.Len(t, comms.entries, 1)
	assert.Equal(t, domain.DeliverySent, entry.DeliveryStatus)
	assert.Equal(t, "Week one, Maya", entry.Subject)
	assert.Equal(t, "nurture", entry.Type)
}

// A webhook failure is not an error to the caller; the log row records it.
func TestSendSequence_WebhookFailureStillLogged(t *testing.T) {
	c := &domain.Customer{ID: "cus-1", FirstName: "Maya", Email: "maya@example.com"}
	seq := &domain.MessageSequence{Day: 0, MessageType: domain.ChannelEmail, Subject: "Welcome", Content: "Hi {{first_name}}"}
	sender := &fakeSender{err: errors.New("webhook status 502")}
	svc, comms := newTestMessaging(c, seq, sender)

	entry, err := svc.SendSequence(context.Background(), "cus-1", 0)
	require.NoError(t, err)

	require.Len(t, comms.entries, 1)
	assert.Equal(t, domain.DeliveryFailed, entry.DeliveryStatus)
	assert.Contains(t, entry.ErrorDetail, "502")
}

func TestSendSequence_TextChannelUsesPhone(t *testing.T) {
	c := &domain.Customer{ID: "cus-1", FirstName: "Maya", Email: "maya@example.com", Phone: "+15550100"}
	seq := &domain.MessageSequence{Day: 10, MessageType: domain.ChannelText, Content: "Checking in"}
	sender := &fakeSender{}
	svc, _ := newTestMessaging(c, seq, sender)

	_, err := svc.SendSequence(context.Background(), "cus-1", 10)
	require.NoError(t, err)
	require.Len(t, sender.payloads, 1)
	assert.Equal(t, "+15550100", sender.payloads[0].Recipient)
	assert.Equal(t, "text", sender.payloads[0].MessageType)
}

func TestSendSequence_NoRecipient(t *testing.T) {
	c := &domain.Customer{ID: "cus-1", FirstName: "Maya"} // no email on file
	seq := &domain.MessageSequence{Day: 7, MessageType: domain.ChannelEmail, Content: "Hi"}
	sender := &fakeSender{}
	svc, comms := newTestMessaging(c, seq, sender)

	_, err := svc.SendSequence(context.Background(), "cus-1", 7)
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Empty(t, sender.payloads, "nothing dispatched without a recipient")
	assert.Empty(t, comms.entries)
}

func TestSendNotice(t *testing.T) {
	c := &domain.Customer{ID: "cus-2", FirstName: "Jo", Email: "jo@example.com"}
	sender := &fakeSender{}
	svc, comms := newTestMessaging(c, nil, sender)

	entry, err := svc.SendNotice(context.Background(), "cus-2", domain.ChannelEmail, "Booking Confirmed", "See you soon, {{first_name}}!")
	require.NoError(t, err)

	assert.Equal(t, "booking_notice", entry.Type)
	assert.Equal(t, "See you soon, Jo!", entry.Content)
	require.Len(t, sender.payloads, 1)
	assert.Empty(t, sender.payloads[0].Day, "transactional messages carry no sequence day")
	assert.Len(t, comms.entries, 1)
}
