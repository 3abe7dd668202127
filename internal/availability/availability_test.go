package availability_test

import (
	"time"

	"innkeep/internal/availability"
)

func date(value string) time.Time {
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}

	return t
}

func ptr[T any](v T) *T {
	return &v
}

func booking(id, roomID string, checkIn, checkOut string, status availability.Status) availability.Booking {
	return availability.Booking{
		ID:         id,
		PropertyID: "p1",
		RoomID:     ptr(roomID),
		GuestName:  "Guest " + id,
		CheckIn:    date(checkIn),
		CheckOut:   date(checkOut),
		Status:     status,
	}
}

func ids(bookings []availability.Booking) []string {
	out := make([]string, len(bookings))
	for i, b := range bookings {
		out[i] = b.ID
	}

	return out
}
