package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBooking_OpenClass(t *testing.T) {
	cs := &ClassSession{MaxCapacity: 10, CurrentBookings: 4}

	status, pos := ApplyBooking(cs)

	assert.Equal(t, BookingConfirmed, status)
	assert.Nil(t, pos)
	assert.Equal(t, 5, cs.CurrentBookings)
	assert.Equal(t, 0, cs.WaitlistCount)
}

func TestApplyBooking_FullClass(t *testing.T) {
	cs := &ClassSession{MaxCapacity: 10, CurrentBookings: 10}

	status, pos := ApplyBooking(cs)

	assert.Equal(t, BookingWaitlisted, status)
	require.NotNil(t, pos)
	assert.Equal(t, 1, *pos)
	assert.Equal(t, 10, cs.CurrentBookings)
	assert.Equal(t, 1, cs.WaitlistCount)
}

func TestApplyBooking_WaitlistPositionsAccumulate(t *testing.T) {
	cs := &ClassSession{MaxCapacity: 1, CurrentBookings: 1}

	_, first := ApplyBooking(cs)
	_, second := ApplyBooking(cs)

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, 1, *first)
	assert.Equal(t, 2, *second)
}

// Booking then cancelling must return the counters to their exact
// pre-booking values, for both the confirmed and the waitlisted path.
func TestBookThenCancelRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		booked   int
		waitlist int
	}{
		{"open class", 10, 4, 0},
		{"last spot", 10, 9, 0},
		{"full class", 10, 10, 0},
		{"full with waitlist", 10, 10, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &ClassSession{MaxCapacity: tt.capacity, CurrentBookings: tt.booked, WaitlistCount: tt.waitlist}

			status, _ := ApplyBooking(cs)
			ReleaseBooking(cs, status)

			assert.Equal(t, tt.booked, cs.CurrentBookings)
			assert.Equal(t, tt.waitlist, cs.WaitlistCount)
		})
	}
}

func TestReleaseBooking_FlooredAtZero(t *testing.T) {
	cs := &ClassSession{MaxCapacity: 10}
	ReleaseBooking(cs, BookingConfirmed)
	ReleaseBooking(cs, BookingWaitlisted)
	assert.Equal(t, 0, cs.CurrentBookings)
	assert.Equal(t, 0, cs.WaitlistCount)
}
