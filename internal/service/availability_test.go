package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/treydodson26/talo-studio/internal/domain"
)

// classAt builds a session starting at the given local time.
func classAt(t time.Time, capacity, booked, waitlist int) *domain.ClassSession {
	return &domain.ClassSession{
		ClassDate:       time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local),
		ClassTime:       t.Format("15:04"),
		MaxCapacity:     capacity,
		CurrentBookings: booked,
		WaitlistCount:   waitlist,
	}
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		booked   int
		waitlist int
		want     AvailabilityStatus
	}{
		{"empty class", 20, 0, 0, AvailabilityAvailable},
		{"plenty of spots", 20, 10, 0, AvailabilityAvailable},
		{"three left", 20, 17, 0, AvailabilityLimited},
		{"one left", 20, 19, 0, AvailabilityLimited},
		{"exactly full", 20, 20, 0, AvailabilityFull},
		{"full with waitlist", 20, 20, 2, AvailabilityWaitlist},
		{"overbooked legacy row", 20, 22, 0, AvailabilityFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := &domain.ClassSession{MaxCapacity: tt.capacity, CurrentBookings: tt.booked, WaitlistCount: tt.waitlist}
			assert.Equal(t, tt.want, Availability(cs))
		})
	}
}

// Availability must only move toward scarcity as bookings increase.
func TestAvailabilityMonotonic(t *testing.T) {
	rank := map[AvailabilityStatus]int{
		AvailabilityAvailable: 0,
		AvailabilityLimited:   1,
		AvailabilityWaitlist:  2,
		AvailabilityFull:      2,
	}
	cs := &domain.ClassSession{MaxCapacity: 15}
	prev := Availability(cs)
	for i := 0; i < 20; i++ {
		domain.ApplyBooking(cs)
		cur := Availability(cs)
		assert.GreaterOrEqual(t, rank[cur], rank[prev], "booking %d regressed %s -> %s", i+1, prev, cur)
		prev = cur
	}
}

func TestIsBookableBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"2h01m before start", now.Add(2*time.Hour + time.Minute), true},
		{"exactly 2h before", now.Add(2 * time.Hour), false},
		{"1h59m before start", now.Add(time.Hour + 59*time.Minute), false},
		{"already started", now.Add(-10 * time.Minute), false},
		{"yesterday", now.Add(-24 * time.Hour), false},
		{"next week", now.Add(7 * 24 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := classAt(tt.start, 20, 0, 0)
			assert.Equal(t, tt.want, IsBookable(cs, now))
		})
	}
}

func TestCancellationPolicy(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	tests := []struct {
		name  string
		start time.Time
		want  CancellationWindow
	}{
		{"day before", now.Add(26 * time.Hour), CancellationWindow{Allowed: true, LateFee: false}},
		{"just over 12h", now.Add(12*time.Hour + time.Minute), CancellationWindow{Allowed: true, LateFee: false}},
		{"inside late window", now.Add(5 * time.Hour), CancellationWindow{Allowed: true, LateFee: true}},
		{"just over 2h", now.Add(2*time.Hour + time.Minute), CancellationWindow{Allowed: true, LateFee: true}},
		{"under 2h", now.Add(90 * time.Minute), CancellationWindow{Allowed: false}},
		{"class in progress", now.Add(-15 * time.Minute), CancellationWindow{Allowed: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := classAt(tt.start, 20, 5, 0)
			assert.Equal(t, tt.want, CancellationPolicy(cs, now))
		})
	}
}

func TestNewClassView(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	cs := classAt(now.Add(4*time.Hour), 12, 10, 0)

	v := NewClassView(*cs, now)

	assert.Equal(t, 2, v.SpotsRemaining)
	assert.InDelta(t, 4.0, v.HoursUntilClass, 0.001)
	assert.True(t, v.IsBookable)
	assert.Equal(t, AvailabilityLimited, v.AvailabilityStatus)
}
