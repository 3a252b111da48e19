package worker

import (
	"context"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/events"
	"github.com/treydodson26/talo-studio/pkg/mq"
)

// Notices is the slice of messaging the worker needs; satisfied by
// *service.MessagingSvc.
type Notices interface {
	SendNotice(ctx context.Context, customerID string, channel domain.MessageChannel, subject, content string) (*domain.CommunicationLog, error)
}

// Consumer turns booking events into customer-facing notices. One queue,
// bound to booking.* on the studio exchange; failed handlers nack with
// requeue and the DLX catches poison messages.
type Consumer struct {
	cons    *mq.Consumer
	notices Notices
	log     zerolog.Logger
}

func NewConsumer(cons *mq.Consumer, notices Notices) *Consumer {
	return &Consumer{
		cons:    cons,
		notices: notices,
		log:     zerolog.New(os.Stdout).With().Timestamp().Str("component", "notify").Logger(),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	msgs, err := c.cons.Deliveries(ctx, "studio-notify")
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := c.handle(ctx, d); err != nil {
				c.log.Error().Err(err).Str("key", d.RoutingKey).Msg("handle failed, nack")
				_ = d.Nack(false, !d.Redelivered)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKBookingCreated:
		ev, err := events.Unmarshal[events.BookingCreated](d.Body)
		if err != nil {
			return err
		}
		subject, body := bookingNotice(ev)
		_, err = c.notices.SendNotice(ctx, ev.CustomerID, domain.ChannelEmail, subject, body)
		return err

	case events.RKBookingCancelled:
		ev, err := events.Unmarshal[events.BookingCancelled](d.Body)
		if err != nil {
			return err
		}
		_, err = c.notices.SendNotice(ctx, ev.CustomerID, domain.ChannelEmail,
			"Booking Cancelled",
			fmt.Sprintf("Hi {{first_name}}, your booking for %s has been cancelled.", ev.ClassName))
		return err

	case events.RKBookingCheckedIn:
		// attendance already recorded by the API; nothing to send
		return nil

	default:
		c.log.Info().Str("key", d.RoutingKey).Msg("skip unknown key")
		return nil
	}
}

func bookingNotice(ev events.BookingCreated) (subject, body string) {
	start := time.Unix(ev.StartUnix, 0).Local().Format("Mon Jan 2 at 3:04 PM")
	if ev.Waitlisted {
		return "Added to Waitlist",
			fmt.Sprintf("Hi {{first_name}}, %s on %s is full. You are #%d on the waitlist and we'll reach out if a spot opens.",
				ev.ClassName, start, ev.Position)
	}
	return "Booking Confirmed",
		fmt.Sprintf("Hi {{first_name}}, you're booked for %s on %s. See you on the mat!", ev.ClassName, start)
}
