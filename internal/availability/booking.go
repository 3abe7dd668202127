package availability

import "time"

// Room is the read-only view of a room the engine needs.
type Room struct {
	ID         string
	PropertyID string
	CategoryID *string
	Number     string
	Status     RoomStatus
}

// Booking is the read-only view of a reservation the engine needs.
// RoomID is nil while the booking is not yet assigned to a room.
type Booking struct {
	ID            string
	PropertyID    string
	RoomID        *string
	GuestName     string
	GuestEmail    string
	GuestPhone    string
	CheckIn       time.Time
	CheckOut      time.Time
	Status        Status
	AutoReleaseAt *time.Time
}

func (b Booking) Stay() Stay {
	return Stay{CheckIn: Day(b.CheckIn), CheckOut: Day(b.CheckOut)}
}

// AssignedTo reports whether the booking sits on the given room.
func (b Booking) AssignedTo(roomID string) bool {
	return b.RoomID != nil && *b.RoomID == roomID
}

// HoldExpired reports whether a tentative hold passed its release deadline
// strictly before now.
func (b Booking) HoldExpired(now time.Time) bool {
	return b.Status == StatusTentative && b.AutoReleaseAt != nil && b.AutoReleaseAt.Before(now)
}
