package availability

import "time"

// FindExpiredHolds selects the tentative bookings whose auto-release deadline
// is strictly before now, in input order. Applying the release is up to the
// caller.
func FindExpiredHolds(bookings []Booking, now time.Time) []Booking {
	expired := []Booking{}

	for _, booking := range bookings {
		if booking.HoldExpired(now) {
			expired = append(expired, booking)
		}
	}

	return expired
}
