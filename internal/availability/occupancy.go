package availability

import (
	"iter"
	"time"
)

// Occupancy is the number of rooms sold for one night.
type Occupancy struct {
	Day      time.Time
	Occupied int
	Total    int
}

// Rate is Occupied/Total, or 0 for a property without rooms. A zero rate
// therefore does not mean vacant unless Total is checked as well.
func (o Occupancy) Rate() float64 {
	if o.Total == 0 {
		return 0
	}

	return float64(o.Occupied) / float64(o.Total)
}

// countsTowardOccupancy holds the statuses that sell a room for the night.
// Tentative holds and checked-out stays do not.
func countsTowardOccupancy(status Status) bool {
	return status == StatusReserved || status == StatusCheckedIn
}

// ComputeOccupancy counts the rooms of the roster that have a reserved or
// checked-in booking covering the night of day.
func ComputeOccupancy(day time.Time, rooms []Room, bookings []Booking) Occupancy {
	day = Day(day)

	roster := make(map[string]struct{}, len(rooms))
	for _, room := range rooms {
		roster[room.ID] = struct{}{}
	}

	occupied := make(map[string]struct{}, len(rooms))

	for _, booking := range bookings {
		if booking.RoomID == nil || !countsTowardOccupancy(booking.Status) {
			continue
		}

		if _, ok := roster[*booking.RoomID]; !ok {
			continue
		}

		if booking.Stay().Contains(day) {
			occupied[*booking.RoomID] = struct{}{}
		}
	}

	return Occupancy{Day: day, Occupied: len(occupied), Total: len(roster)}
}

// OccupancySeries yields ComputeOccupancy for each day in input order. The
// sequence is lazy and can be ranged over any number of times.
func OccupancySeries(days []time.Time, rooms []Room, bookings []Booking) iter.Seq[Occupancy] {
	return func(yield func(Occupancy) bool) {
		for _, day := range days {
			if !yield(ComputeOccupancy(day, rooms, bookings)) {
				return
			}
		}
	}
}

// Night is one cell of a room calendar.
type Night struct {
	Day       time.Time
	BookingID string
	Status    Status
}

// RoomCalendar is the row of nights for one room. Nights without a booking
// are left zero apart from Day.
type RoomCalendar struct {
	Room   Room
	Nights []Night
}

// Calendar lays the non-cancelled bookings of each room over days. When
// bookings overlap on a room the one with the earliest check-in wins the cell.
func Calendar(days []time.Time, rooms []Room, bookings []Booking) []RoomCalendar {
	calendar := make([]RoomCalendar, len(rooms))

	for i, room := range rooms {
		assigned := roomBookings(room.ID, bookings)
		nights := make([]Night, len(days))

		for j, day := range days {
			nights[j] = Night{Day: Day(day)}

			for _, booking := range assigned {
				if booking.Stay().Contains(day) {
					nights[j].BookingID = booking.ID
					nights[j].Status = booking.Status

					break
				}
			}
		}

		calendar[i] = RoomCalendar{Room: room, Nights: nights}
	}

	return calendar
}

func roomBookings(roomID string, bookings []Booking) []Booking {
	everything := Stay{CheckIn: time.Time{}, CheckOut: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)}

	return findConflicts(roomID, everything, bookings, newConflictOptions(nil))
}
