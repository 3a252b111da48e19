package domain

import "time"

// ClassSession is one scheduled offering on the studio calendar.
// current_bookings and waitlist_count are denormalized counters owned by
// the booking engine; they are only ever changed inside its transactions.
type ClassSession struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	ClassName       string    `gorm:"column:class_name" json:"class_name"`
	InstructorName  string    `gorm:"column:instructor_name" json:"instructor_name"`
	ClassDate       time.Time `gorm:"column:class_date;index" json:"class_date"`
	ClassTime       string    `gorm:"column:class_time" json:"class_time"` // HH:MM
	Room            string    `json:"room"`
	PriceCents      int64     `gorm:"column:price_cents" json:"price_cents"` // drop-in rate
	MaxCapacity     int       `gorm:"column:max_capacity" json:"max_capacity"`
	CurrentBookings int       `gorm:"column:current_bookings" json:"current_bookings"`
	WaitlistCount   int       `gorm:"column:waitlist_count" json:"waitlist_count"`
	NeedsSubstitute bool      `gorm:"column:needs_substitute" json:"needs_substitute"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (ClassSession) TableName() string { return "classes_schedule" }

// StartAt combines the date and HH:MM time fields naively in local time,
// matching how the schedule has always been interpreted.
func (c *ClassSession) StartAt() time.Time {
	hh, mm := 0, 0
	if t, err := time.Parse("15:04", c.ClassTime); err == nil {
		hh, mm = t.Hour(), t.Minute()
	}
	d := c.ClassDate
	return time.Date(d.Year(), d.Month(), d.Day(), hh, mm, 0, 0, time.Local)
}

func (c *ClassSession) SpotsRemaining() int {
	if n := c.MaxCapacity - c.CurrentBookings; n > 0 {
		return n
	}
	return 0
}
