package dto

import (
	"time"

	"innkeep/internal/availability"
	bookingDto "innkeep/internal/domains/booking/model/dto"
	"innkeep/shared"
)

type CheckRequest struct {
	RoomID           string `json:"room_id"            validate:"required,uuid"`
	CheckIn          string `json:"check_in"           validate:"required,day"  example:"2026-03-01"`
	CheckOut         string `json:"check_out"          validate:"required,day"  example:"2026-03-04"`
	ExcludeBookingID string `json:"exclude_booking_id" validate:"omitempty,uuid"`
}

type CheckResponse struct {
	RoomID    string                        `json:"room_id"`
	CheckIn   string                        `json:"check_in"`
	CheckOut  string                        `json:"check_out"`
	Nights    int                           `json:"nights"`
	Available bool                          `json:"available"`
	Conflicts []bookingDto.ConflictResponse `json:"conflicts"`
}

func (r *CheckResponse) FromStay(roomID string, stay availability.Stay, conflicts []availability.Booking) {
	r.RoomID = roomID
	r.CheckIn = shared.FormatDay(stay.CheckIn)
	r.CheckOut = shared.FormatDay(stay.CheckOut)
	r.Nights = stay.Nights()
	r.Available = len(conflicts) == 0
	r.Conflicts = bookingDto.ConflictsFromAvailability(conflicts)
}

type CheckGroupRequest struct {
	PropertyID string   `json:"property_id" validate:"required,uuid"`
	RoomIDs    []string `json:"room_ids"    validate:"required,min=1,max=50,unique,dive,uuid"`
	CheckIn    string   `json:"check_in"    validate:"required,day"`
	CheckOut   string   `json:"check_out"   validate:"required,day"`
}

type CheckGroupResponse struct {
	Available bool                            `json:"available"`
	Rooms     []bookingDto.RoomResultResponse `json:"rooms"`
}

// RangeQuery selects the property and the [from, to) window of a report.
type RangeQuery struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	From       string `json:"from"        validate:"required,day"`
	To         string `json:"to"          validate:"required,day"`
}

type DayQuery struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Day        string `json:"day"         validate:"omitempty,day"`
}

type OccupancyResponse struct {
	Day      string  `json:"day"`
	Occupied int     `json:"occupied"`
	Total    int     `json:"total"`
	Rate     float64 `json:"rate"`
}

func (r *OccupancyResponse) FromOccupancy(o availability.Occupancy) {
	r.Day = shared.FormatDay(o.Day)
	r.Occupied = o.Occupied
	r.Total = o.Total
	r.Rate = o.Rate()
}

type SeriesResponse struct {
	PropertyID  string              `json:"property_id"`
	From        string              `json:"from"`
	To          string              `json:"to"`
	AverageRate float64             `json:"average_rate"`
	Days        []OccupancyResponse `json:"days"`
}

type NightResponse struct {
	Day       string `json:"day"`
	BookingID string `json:"booking_id,omitempty"`
	Status    string `json:"status,omitempty"`
}

type RoomCalendarResponse struct {
	RoomID string          `json:"room_id"`
	Number string          `json:"number"`
	Status string          `json:"status"`
	Nights []NightResponse `json:"nights"`
}

type CalendarResponse struct {
	PropertyID string                 `json:"property_id"`
	From       string                 `json:"from"`
	To         string                 `json:"to"`
	Rooms      []RoomCalendarResponse `json:"rooms"`
}

func (r *CalendarResponse) FromCalendar(calendar []availability.RoomCalendar) {
	r.Rooms = make([]RoomCalendarResponse, len(calendar))

	for i, row := range calendar {
		nights := make([]NightResponse, len(row.Nights))
		for j, night := range row.Nights {
			nights[j] = NightResponse{Day: shared.FormatDay(night.Day), BookingID: night.BookingID, Status: string(night.Status)}
		}

		r.Rooms[i] = RoomCalendarResponse{
			RoomID: row.Room.ID,
			Number: row.Room.Number,
			Status: string(row.Room.Status),
			Nights: nights,
		}
	}
}

type ExpiredHoldResponse struct {
	BookingID     string `json:"booking_id"`
	RoomID        string `json:"room_id"`
	GuestName     string `json:"guest_name"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	AutoReleaseAt string `json:"auto_release_at"`
}

type ExpiredHoldsResponse struct {
	PropertyID string                `json:"property_id"`
	Holds      []ExpiredHoldResponse `json:"holds"`
}

func (r *ExpiredHoldsResponse) FromBookings(bookings []availability.Booking) {
	r.Holds = make([]ExpiredHoldResponse, len(bookings))

	for i, b := range bookings {
		r.Holds[i] = ExpiredHoldResponse{
			BookingID: b.ID,
			GuestName: b.GuestName,
			CheckIn:   shared.FormatDay(b.CheckIn),
			CheckOut:  shared.FormatDay(b.CheckOut),
		}

		if b.RoomID != nil {
			r.Holds[i].RoomID = *b.RoomID
		}

		if b.AutoReleaseAt != nil {
			r.Holds[i].AutoReleaseAt = b.AutoReleaseAt.UTC().Format(time.RFC3339)
		}
	}
}
