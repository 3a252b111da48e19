package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "confirmed"
	BookingWaitlisted BookingStatus = "waitlisted"
	BookingCancelled  BookingStatus = "cancelled"
)

// Booking rows are never deleted; cancellation is a status transition so
// the attendance history stays intact.
type Booking struct {
	ID                 string        `gorm:"primaryKey" json:"id"`
	CustomerID         string        `gorm:"column:customer_id;index" json:"customer_id"`
	ClassID            string        `gorm:"column:class_id;index" json:"class_id"`
	Status             BookingStatus `gorm:"index" json:"status"`
	WaitlistPosition   *int          `gorm:"column:waitlist_position" json:"waitlist_position"`
	BookingDate        time.Time     `gorm:"column:booking_date" json:"booking_date"`
	CheckedInAt        *time.Time    `gorm:"column:checked_in_at" json:"checked_in_at"`
	CancellationReason *string       `gorm:"column:cancellation_reason" json:"cancellation_reason"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
