package service

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/treydodson26/talo-studio/internal/domain"
	"github.com/treydodson26/talo-studio/internal/events"
	"github.com/treydodson26/talo-studio/internal/repository"
	"github.com/treydodson26/talo-studio/pkg/mq"
)

var (
	ErrClassNotBookable = errors.New("class_not_bookable")
	ErrTooLateToCancel  = errors.New("too_late_to_cancel")
)

type BookingSvc struct {
	bookings  *repository.BookingRepo
	classes   *repository.ClassRepo
	customers *repository.CustomerRepo
	pub       *mq.Publisher
	log       zerolog.Logger
	now       func() time.Time
}

func NewBookingSvc(b *repository.BookingRepo, cl *repository.ClassRepo, cu *repository.CustomerRepo, pub *mq.Publisher) *BookingSvc {
	return &BookingSvc{
		bookings:  b,
		classes:   cl,
		customers: cu,
		pub:       pub,
		log:       zerolog.New(os.Stdout).With().Timestamp().Str("component", "booking").Logger(),
		now:       time.Now,
	}
}

type BookingResult struct {
	Booking    *domain.Booking      `json:"booking"`
	Class      *domain.ClassSession `json:"class"`
	Waitlisted bool                 `json:"waitlisted"`
}

// Book places a customer into a class, or onto its waitlist when full.
// The confirmed/waitlisted decision happens inside the repo transaction
// against locked counters; this layer enforces the booking window and
// emits the event.
func (s *BookingSvc) Book(ctx context.Context, customerID, classID string) (*BookingResult, error) {
	if _, err := s.customers.ByID(ctx, customerID); err != nil {
		return nil, err
	}
	cs, err := s.classes.ByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !IsBookable(cs, s.now()) {
		return nil, ErrClassNotBookable
	}

	b, updated, err := s.bookings.Create(ctx, customerID, classID)
	if err != nil {
		return nil, err
	}
	waitlisted := b.Status == domain.BookingWaitlisted

	pos := 0
	if b.WaitlistPosition != nil {
		pos = *b.WaitlistPosition
	}
	if err := s.pub.PublishJSON(ctx, events.RKBookingCreated, events.BookingCreated{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ClassID:    b.ClassID,
		ClassName:  updated.ClassName,
		StartUnix:  updated.StartAt().Unix(),
		Waitlisted: waitlisted,
		Position:   pos,
	}); err != nil {
		s.log.Warn().Err(err).Str("booking_id", b.ID).Msg("publish booking.created failed")
	}

	return &BookingResult{Booking: b, Class: updated, Waitlisted: waitlisted}, nil
}

// Cancel applies the cancellation policy, then reverses the booking and
// its counter in one transaction. The late-fee flag is informational:
// within 2-12 hours the cancellation still goes through.
func (s *BookingSvc) Cancel(ctx context.Context, bookingID, reason string) (*BookingResult, CancellationWindow, error) {
	b, err := s.bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, CancellationWindow{}, err
	}
	cs, err := s.classes.ByID(ctx, b.ClassID)
	if err != nil {
		return nil, CancellationWindow{}, err
	}
	window := CancellationPolicy(cs, s.now())
	if !window.Allowed {
		return nil, window, ErrTooLateToCancel
	}

	cancelled, updated, err := s.bookings.Cancel(ctx, bookingID, reason)
	if err != nil {
		return nil, window, err
	}
	if err := s.pub.PublishJSON(ctx, events.RKBookingCancelled, events.BookingCancelled{
		BookingID:  cancelled.ID,
		CustomerID: cancelled.CustomerID,
		ClassID:    cancelled.ClassID,
		ClassName:  updated.ClassName,
		Reason:     reason,
	}); err != nil {
		s.log.Warn().Err(err).Str("booking_id", cancelled.ID).Msg("publish booking.cancelled failed")
	}
	return &BookingResult{Booking: cancelled, Class: updated}, window, nil
}

// CheckIn marks attendance and rolls the visit onto the customer card.
func (s *BookingSvc) CheckIn(ctx context.Context, bookingID string) (*domain.Booking, error) {
	at := s.now()
	b, err := s.bookings.CheckIn(ctx, bookingID, at)
	if err != nil {
		return nil, err
	}
	if err := s.customers.RecordVisit(ctx, b.CustomerID, at); err != nil {
		s.log.Warn().Err(err).Str("customer_id", b.CustomerID).Msg("record visit failed")
	}
	if err := s.pub.PublishJSON(ctx, events.RKBookingCheckedIn, events.BookingCheckedIn{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ClassID:    b.ClassID,
	}); err != nil {
		s.log.Warn().Err(err).Str("booking_id", b.ID).Msg("publish booking.checked_in failed")
	}
	return b, nil
}

func (s *BookingSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.ByID(ctx, id)
}

func (s *BookingSvc) List(ctx context.Context, page, size int, customerID, classID string) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, page, size, customerID, classID)
}

// Schedule lists sessions with the derived availability view attached.
func (s *BookingSvc) Schedule(ctx context.Context, from, to time.Time, instructor string) ([]ClassView, error) {
	sessions, err := s.classes.List(ctx, from, to, instructor)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]ClassView, 0, len(sessions))
	for _, cs := range sessions {
		out = append(out, NewClassView(cs, now))
	}
	return out, nil
}
