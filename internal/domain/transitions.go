package domain

// ApplyBooking decides confirmed-vs-waitlisted from the session counters
// and advances them. Callers must hold the class row lock; the decision
// and the counter bump have to come from the same read.
func ApplyBooking(cs *ClassSession) (BookingStatus, *int) {
	if cs.MaxCapacity-cs.CurrentBookings <= 0 {
		cs.WaitlistCount++
		pos := cs.WaitlistCount
		return BookingWaitlisted, &pos
	}
	cs.CurrentBookings++
	return BookingConfirmed, nil
}

// ReleaseBooking reverses exactly the counter a booking held, floored at
// zero so a drifted counter can never go negative.
func ReleaseBooking(cs *ClassSession, was BookingStatus) {
	if was == BookingWaitlisted {
		if cs.WaitlistCount > 0 {
			cs.WaitlistCount--
		}
		return
	}
	if cs.CurrentBookings > 0 {
		cs.CurrentBookings--
	}
}
