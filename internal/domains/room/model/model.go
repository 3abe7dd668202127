package model

import (
	"innkeep/internal/availability"
	"innkeep/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldPropertyID = "property_id"
	FieldCategoryID = "category_id"
	FieldNumber     = "number"
	FieldFloor      = "floor"
	FieldStatus     = "status"
	FieldImage      = "image"
	FieldNotes      = "notes"
)

type Room struct {
	ID         string                  `db:"id"`
	PropertyID string                  `db:"property_id"`
	CategoryID *string                 `db:"category_id"`
	Number     string                  `db:"number"`
	Floor      int                     `db:"floor"`
	Status     availability.RoomStatus `db:"status"`
	Image      string                  `db:"image"`
	Notes      string                  `db:"notes"`
	model.Metadata
}

func (r Room) ToAvailability() availability.Room {
	return availability.Room{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		CategoryID: r.CategoryID,
		Number:     r.Number,
		Status:     r.Status,
	}
}

// ToAvailabilityRooms converts a roster for the engine.
func ToAvailabilityRooms(rooms []Room) []availability.Room {
	res := make([]availability.Room, len(rooms))
	for i, room := range rooms {
		res[i] = room.ToAvailability()
	}

	return res
}

// StatusCount is one row of a housekeeping status breakdown.
type StatusCount struct {
	Status availability.RoomStatus `db:"status"`
	Total  int                     `db:"total"`
}
