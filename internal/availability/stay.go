package availability

import "time"

const hoursPerDay = 24

// Stay is the half-open interval of nights [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Day truncates t to its calendar date, expressed as midnight UTC.
// The date is read in t's own location.
func Day(t time.Time) time.Time {
	year, month, day := t.Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ValidateCandidateStay normalises both ends to calendar dates and fails with
// ErrInvalidRange unless check-out falls strictly after check-in.
func ValidateCandidateStay(checkIn, checkOut time.Time) (Stay, error) {
	stay := Stay{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}

	if !stay.CheckOut.After(stay.CheckIn) {
		return Stay{}, ErrInvalidRange
	}

	return stay, nil
}

// Overlaps reports whether two stays share at least one night.
// Adjacent stays, where one leaves the day the other arrives, do not overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && s.CheckOut.After(other.CheckIn)
}

// Contains reports whether the night starting on day belongs to the stay.
func (s Stay) Contains(day time.Time) bool {
	day = Day(day)

	return !day.Before(s.CheckIn) && day.Before(s.CheckOut)
}

func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn).Hours() / hoursPerDay)
}

// Days returns every calendar date in [from, to). It returns nil when to is
// not after from.
func Days(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)
	if !to.After(from) {
		return nil
	}

	days := make([]time.Time, 0, int(to.Sub(from).Hours()/hoursPerDay))
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}

	return days
}
