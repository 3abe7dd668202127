package dto

import (
	"time"

	"innkeep/internal/availability"
	"innkeep/internal/domains/booking/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
)

const defaultAdults = 1

type Guest struct {
	GuestName  string `json:"guest_name"  validate:"required,max=120"`
	GuestEmail string `json:"guest_email" validate:"omitempty,email,max=255"`
	GuestPhone string `json:"guest_phone" validate:"omitempty,max=30"`
	Adults     int    `json:"adults"      validate:"omitempty,min=1,max=20"`
	Children   int    `json:"children"    validate:"omitempty,min=0,max=20"`
	Notes      string `json:"notes"       validate:"omitempty,max=1000"`
}

type Stay struct {
	CheckIn       string     `json:"check_in"        validate:"required,day"                               example:"2026-03-01"`
	CheckOut      string     `json:"check_out"       validate:"required,day"                               example:"2026-03-04"`
	Status        string     `json:"status"          validate:"omitempty,oneof=tentative reserved checked_in"`
	AutoReleaseAt *time.Time `json:"auto_release_at" validate:"omitempty"`
}

// Dates parses the stay as calendar days.
func (s Stay) Dates() (checkIn, checkOut time.Time, err error) {
	if checkIn, err = shared.ParseDay(s.CheckIn); err != nil {
		return checkIn, checkOut, err //nolint:wrapcheck
	}

	checkOut, err = shared.ParseDay(s.CheckOut)

	return checkIn, checkOut, err //nolint:wrapcheck
}

// InitialStatus defaults a new booking to reserved.
func (s Stay) InitialStatus() availability.Status {
	if s.Status == constant.Empty {
		return availability.StatusReserved
	}

	return availability.Status(s.Status)
}

type CreateBookingRequest struct {
	PropertyID string  `json:"property_id" validate:"required,uuid"`
	RoomID     *string `json:"room_id"     validate:"omitempty,uuid"`
	Guest
	Stay
}

func (c *CreateBookingRequest) ToModel(user string, checkIn, checkOut time.Time, holdUntil *time.Time, now time.Time) model.Booking {
	adults := c.Adults
	if adults == 0 {
		adults = defaultAdults
	}

	return model.Booking{
		ID:            uuid.NewString(),
		PropertyID:    c.PropertyID,
		RoomID:        c.RoomID,
		GuestName:     c.GuestName,
		GuestEmail:    c.GuestEmail,
		GuestPhone:    c.GuestPhone,
		Adults:        adults,
		Children:      c.Children,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Status:        c.InitialStatus(),
		AutoReleaseAt: holdUntil,
		Notes:         c.Notes,
		Metadata:      gModel.NewMetadata(user, now),
	}
}

type CreateGroupBookingRequest struct {
	PropertyID string   `json:"property_id" validate:"required,uuid"`
	RoomIDs    []string `json:"room_ids"    validate:"required,min=1,max=50,unique,dive,uuid"`
	Guest
	Stay
}

// ToModels creates one booking per room, all sharing a group id.
func (c *CreateGroupBookingRequest) ToModels(user string, checkIn, checkOut time.Time, holdUntil *time.Time, now time.Time) []model.Booking {
	groupID := uuid.NewString()
	bookings := make([]model.Booking, len(c.RoomIDs))

	for i, roomID := range c.RoomIDs {
		single := CreateBookingRequest{PropertyID: c.PropertyID, RoomID: &roomID, Guest: c.Guest, Stay: c.Stay}
		bookings[i] = single.ToModel(user, checkIn, checkOut, holdUntil, now)
		bookings[i].GroupID = &groupID
	}

	return bookings
}

type UpdateBookingRequest struct {
	RoomID     *string `json:"room_id"     validate:"omitempty,uuid"`
	GuestName  string  `json:"guest_name"  validate:"omitempty,max=120"`
	GuestEmail string  `json:"guest_email" validate:"omitempty,email,max=255"`
	GuestPhone string  `json:"guest_phone" validate:"omitempty,max=30"`
	Adults     *int    `json:"adults"      validate:"omitempty,min=1,max=20"`
	Children   *int    `json:"children"    validate:"omitempty,min=0,max=20"`
	Notes      string  `json:"notes"       validate:"omitempty,max=1000"`
	CheckIn    string  `json:"check_in"    validate:"omitempty,day"`
	CheckOut   string  `json:"check_out"   validate:"omitempty,day"`
	Status     string  `json:"status"      validate:"omitempty,booking_status"`
}

// Guest returns the column changes that never affect availability.
func (u *UpdateBookingRequest) GuestFields() map[string]any {
	fields := map[string]any{}

	if u.GuestName != constant.Empty {
		fields[model.FieldGuestName] = u.GuestName
	}

	if u.GuestEmail != constant.Empty {
		fields[model.FieldGuestEmail] = u.GuestEmail
	}

	if u.GuestPhone != constant.Empty {
		fields[model.FieldGuestPhone] = u.GuestPhone
	}

	if u.Adults != nil {
		fields[model.FieldAdults] = *u.Adults
	}

	if u.Children != nil {
		fields[model.FieldChildren] = *u.Children
	}

	if u.Notes != constant.Empty {
		fields[model.FieldNotes] = u.Notes
	}

	return fields
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
}

type ReleaseHoldsRequest struct {
	PropertyID string `json:"property_id" validate:"omitempty,uuid"`
	Limit      int    `json:"limit"       validate:"omitempty,min=1,max=1000"`
}

type ReleaseHoldsResponse struct {
	Released   int      `json:"released"`
	BookingIDs []string `json:"booking_ids"`
}

type BookingResponse struct {
	ID            string  `json:"id"`
	PropertyID    string  `json:"property_id"`
	RoomID        *string `json:"room_id"`
	RoomNumber    *string `json:"room_number"`
	GroupID       *string `json:"group_id"`
	GuestName     string  `json:"guest_name"`
	GuestEmail    string  `json:"guest_email"`
	GuestPhone    string  `json:"guest_phone"`
	Adults        int     `json:"adults"`
	Children      int     `json:"children"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	Nights        int     `json:"nights"`
	Status        string  `json:"status"`
	AutoReleaseAt *string `json:"auto_release_at"`
	Notes         string  `json:"notes"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.PropertyID = m.PropertyID
	r.RoomID = m.RoomID
	r.RoomNumber = m.RoomNumber
	r.GroupID = m.GroupID
	r.GuestName = m.GuestName
	r.GuestEmail = m.GuestEmail
	r.GuestPhone = m.GuestPhone
	r.Adults = m.Adults
	r.Children = m.Children
	r.CheckIn = shared.FormatDay(m.CheckIn)
	r.CheckOut = shared.FormatDay(m.CheckOut)
	r.Nights = m.ToAvailability().Stay().Nights()
	r.Status = string(m.Status)
	r.Notes = m.Notes
	r.AutoReleaseAt = nil

	if m.AutoReleaseAt != nil {
		deadline := timezone.Format(*m.AutoReleaseAt, constant.DateFormat)
		r.AutoReleaseAt = &deadline
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, m := range models {
		r.Bookings[i].FromModel(m)
	}
}

type GroupBookingResponse struct {
	GroupID  string            `json:"group_id"`
	Bookings []BookingResponse `json:"bookings"`
}

func (r *GroupBookingResponse) FromModels(models []model.Booking) {
	r.Bookings = make([]BookingResponse, len(models))
	for i, m := range models {
		r.Bookings[i].FromModel(m)
	}

	if len(models) > 0 && models[0].GroupID != nil {
		r.GroupID = *models[0].GroupID
	}
}

// ConflictResponse describes a booking that blocks a requested stay.
type ConflictResponse struct {
	BookingID string `json:"booking_id"`
	RoomID    string `json:"room_id"`
	GuestName string `json:"guest_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Status    string `json:"status"`
}

func (r *ConflictResponse) FromAvailability(b availability.Booking) {
	r.BookingID = b.ID
	r.GuestName = b.GuestName
	r.CheckIn = shared.FormatDay(b.CheckIn)
	r.CheckOut = shared.FormatDay(b.CheckOut)
	r.Status = string(b.Status)

	if b.RoomID != nil {
		r.RoomID = *b.RoomID
	}
}

func ConflictsFromAvailability(bookings []availability.Booking) []ConflictResponse {
	res := make([]ConflictResponse, len(bookings))
	for i, booking := range bookings {
		res[i].FromAvailability(booking)
	}

	return res
}

// RoomResultResponse is the availability of one room of a group request.
type RoomResultResponse struct {
	RoomID    string             `json:"room_id"`
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

func RoomResultsFromAvailability(results []availability.RoomResult) []RoomResultResponse {
	res := make([]RoomResultResponse, len(results))
	for i, result := range results {
		res[i] = RoomResultResponse{
			RoomID:    result.RoomID,
			Available: result.Available(),
			Conflicts: ConflictsFromAvailability(result.Conflicts),
		}
	}

	return res
}
