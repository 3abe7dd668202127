package model

import (
	"innkeep/internal/availability"
	"innkeep/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldPropertyID    = "property_id"
	FieldRoomID        = "room_id"
	FieldGroupID       = "group_id"
	FieldGuestName     = "guest_name"
	FieldGuestEmail    = "guest_email"
	FieldGuestPhone    = "guest_phone"
	FieldAdults        = "adults"
	FieldChildren      = "children"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldStatus        = "status"
	FieldAutoReleaseAt = "auto_release_at"
	FieldNotes         = "notes"
)

type Booking struct {
	ID            string              `db:"id"`
	PropertyID    string              `db:"property_id"`
	RoomID        *string             `db:"room_id"`
	GroupID       *string             `db:"group_id"`
	GuestName     string              `db:"guest_name"`
	GuestEmail    string              `db:"guest_email"`
	GuestPhone    string              `db:"guest_phone"`
	Adults        int                 `db:"adults"`
	Children      int                 `db:"children"`
	CheckIn       time.Time           `db:"check_in"`
	CheckOut      time.Time           `db:"check_out"`
	Status        availability.Status `db:"status"`
	AutoReleaseAt *time.Time          `db:"auto_release_at"`
	Notes         string              `db:"notes"`
	RoomNumber    *string             `db:"room_number"     table:"rooms" column:"number"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id"
}

func (b Booking) ToAvailability() availability.Booking {
	return availability.Booking{
		ID:            b.ID,
		PropertyID:    b.PropertyID,
		RoomID:        b.RoomID,
		GuestName:     b.GuestName,
		GuestEmail:    b.GuestEmail,
		GuestPhone:    b.GuestPhone,
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Status:        b.Status,
		AutoReleaseAt: b.AutoReleaseAt,
	}
}

func ToAvailability(bookings []Booking) []availability.Booking {
	res := make([]availability.Booking, len(bookings))
	for i, booking := range bookings {
		res[i] = booking.ToAvailability()
	}

	return res
}

// GroupByRoom buckets assigned bookings by room id.
func GroupByRoom(bookings []availability.Booking) map[string][]availability.Booking {
	res := map[string][]availability.Booking{}

	for _, booking := range bookings {
		if booking.RoomID != nil {
			res[*booking.RoomID] = append(res[*booking.RoomID], booking)
		}
	}

	return res
}

// DayCounts is the front-desk view of one day at a property.
type DayCounts struct {
	Arrivals     int `db:"arrivals"`
	Departures   int `db:"departures"`
	InHouse      int `db:"in_house"`
	PendingHolds int `db:"pending_holds"`
}
