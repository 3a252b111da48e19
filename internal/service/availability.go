package service

import (
	"time"

	"github.com/treydodson26/talo-studio/internal/domain"
)

type AvailabilityStatus string

const (
	AvailabilityFull      AvailabilityStatus = "full"
	AvailabilityWaitlist  AvailabilityStatus = "waitlist"
	AvailabilityLimited   AvailabilityStatus = "limited"
	AvailabilityAvailable AvailabilityStatus = "available"
)

// Policy boundaries in hours before class start, matching the studio's
// posted 12h/2h cancellation policy.
const (
	freeCancelHours    = 12
	bookingCutoffHours = 2
	limitedThreshold   = 3
)

// ClassView is a ClassSession plus the derived availability the schedule
// page renders for every listed session.
type ClassView struct {
	domain.ClassSession
	SpotsRemaining     int                `json:"spots_remaining"`
	HoursUntilClass    float64            `json:"hours_until_class"`
	IsBookable         bool               `json:"is_bookable"`
	AvailabilityStatus AvailabilityStatus `json:"availability_status"`
}

func HoursUntil(cs *domain.ClassSession, now time.Time) float64 {
	return cs.StartAt().Sub(now).Hours()
}

// IsBookable: a class within two hours of start, or already past, cannot
// be booked. Past classes give a negative hour count, which is <= 2 and
// therefore correctly not bookable.
func IsBookable(cs *domain.ClassSession, now time.Time) bool {
	return HoursUntil(cs, now) > bookingCutoffHours
}

func Availability(cs *domain.ClassSession) AvailabilityStatus {
	spots := cs.SpotsRemaining()
	switch {
	case spots <= 0 && cs.WaitlistCount == 0:
		return AvailabilityFull
	case spots <= 0:
		return AvailabilityWaitlist
	case spots <= limitedThreshold:
		return AvailabilityLimited
	default:
		return AvailabilityAvailable
	}
}

func NewClassView(cs domain.ClassSession, now time.Time) ClassView {
	return ClassView{
		ClassSession:       cs,
		SpotsRemaining:     cs.SpotsRemaining(),
		HoursUntilClass:    HoursUntil(&cs, now),
		IsBookable:         IsBookable(&cs, now),
		AvailabilityStatus: Availability(&cs),
	}
}

// CancellationWindow classifies a cancellation attempt against the
// 12h/2h policy boundaries.
type CancellationWindow struct {
	Allowed bool `json:"allowed"`
	LateFee bool `json:"late_fee"`
}

func CancellationPolicy(cs *domain.ClassSession, now time.Time) CancellationWindow {
	h := HoursUntil(cs, now)
	switch {
	case h > freeCancelHours:
		return CancellationWindow{Allowed: true, LateFee: false}
	case h > bookingCutoffHours:
		return CancellationWindow{Allowed: true, LateFee: true}
	default:
		return CancellationWindow{Allowed: false, LateFee: false}
	}
}
