package events

import (
	"encoding/json"
	"fmt"
)

// Routing keys published on the studio exchange.
const (
	RKBookingCreated   = "booking.created"
	RKBookingCancelled = "booking.cancelled"
	RKBookingCheckedIn = "booking.checked_in"
)

// BookingCreated carries enough for the notify worker to write the
// confirmation notice without another round trip for the class row.
type BookingCreated struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	ClassID    string `json:"class_id"`
	ClassName  string `json:"class_name"`
	StartUnix  int64  `json:"start"`
	Waitlisted bool   `json:"waitlisted"`
	Position   int    `json:"position,omitempty"`
}

type BookingCancelled struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	ClassID    string `json:"class_id"`
	ClassName  string `json:"class_name"`
	Reason     string `json:"reason,omitempty"`
}

type BookingCheckedIn struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	ClassID    string `json:"class_id"`
}

func Unmarshal[T any](b []byte) (T, error) {
	var t T
	if err := json.Unmarshal(b, &t); err != nil {
		var zero T
		return zero, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}
