package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/events"
)

type sentNotice struct {
	customerID string
	channel    domain.MessageChannel
	subject    string
	content    string
}

type fakeNotices struct{ sent []sentNotice }

func (f *fakeNotices) SendNotice(_ context.Context, customerID string, channel domain.MessageChannel, subject, content string) (*domain.CommunicationLog, error) {
	f.sent = append(f.sent, sentNotice{customerID, channel, subject, content})
	return &domain.CommunicationLog{}, nil
}

func delivery(t *testing.T, key string, ev any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return amqp.Delivery{RoutingKey: key, Body: body}
}

func newTestConsumer(n Notices) *Consumer {
	return &Consumer{notices: n, log: zerolog.Nop()}
}

func TestHandleBookingCreated(t *testing.T) {
	notices := &fakeNotices{}
	c := newTestConsumer(notices)

	start := time.Date(2026, 3, 14, 9, 30, 0, 0, time.Local)
	err := c.handle(context.Background(), delivery(t, events.RKBookingCreated, events.BookingCreated{
		BookingID:  "bk-1",
		CustomerID: "cus-1",
		ClassName:  "Vinyasa Flow",
		StartUnix:  start.Unix(),
	}))
	require.NoError(t, err)

	require.Len(t, notices.sent, 1)
	n := notices.sent[0]
	assert.Equal(t, "cus-1", n.customerID)
	assert.Equal(t, domain.ChannelEmail, n.channel)
	assert.Equal(t, "Booking Confirmed", n.subject)
	assert.Contains(t, n.content, "Vinyasa Flow")
}

func TestHandleBookingCreated_Waitlisted(t *testing.T) {
	notices := &fakeNotices{}
	c := newTestConsumer(notices)

	err := c.handle(context.Background(), delivery(t, events.RKBookingCreated, events.BookingCreated{
		CustomerID: "cus-2",
		ClassName:  "Hot Power",
		Waitlisted: true,
		Position:   3,
	}))
	require.NoError(t, err)

	require.Len(t, notices.sent, 1)
	assert.Equal(t, "Added to Waitlist", notices.sent[0].subject)
	assert.Contains(t, notices.sent[0].content, "#3")
}

func TestHandleBookingCancelled(t *testing.T) {
	notices := &fakeNotices{}
	c := newTestConsumer(notices)

	err := c.handle(context.Background(), delivery(t, events.RKBookingCancelled, events.BookingCancelled{
		CustomerID: "cus-1",
		ClassName:  "Yin Yoga",
	}))
	require.NoError(t, err)

	require.Len(t, notices.sent, 1)
	assert.Equal(t, "Booking Cancelled", notices.sent[0].subject)
	assert.Contains(t, notices.sent[0].content, "Yin Yoga")
}

func TestHandleCheckInAndUnknownKeysAreSilent(t *testing.T) {
	notices := &fakeNotices{}
	c := newTestConsumer(notices)

	require.NoError(t, c.handle(context.Background(), delivery(t, events.RKBookingCheckedIn, events.BookingCheckedIn{CustomerID: "cus-1"})))
	require.NoError(t, c.handle(context.Background(), amqp.Delivery{RoutingKey: "payment.settled", Body: []byte("{}")}))
	assert.Empty(t, notices.sent)
}

func TestHandleMalformedBody(t *testing.T) {
	c := newTestConsumer(&fakeNotices{})
	err := c.handle(context.Background(), amqp.Delivery{RoutingKey: events.RKBookingCreated, Body: []byte("not json")})
	assert.Error(t, err)
}
