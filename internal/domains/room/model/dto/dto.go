package dto

import (
	"mime/multipart"
	"time"

	"innkeep/internal/availability"
	"innkeep/internal/domains/room/model"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	PropertyID string                `json:"property_id" validate:"required,uuid"`
	CategoryID *string               `json:"category_id" validate:"omitempty,uuid"`
	Number     string                `json:"number"      validate:"required,max=20"`
	Floor      int                   `json:"floor"       validate:"omitempty,min=-5,max=200"`
	Status     string                `json:"status"      validate:"omitempty,room_status"`
	Notes      string                `json:"notes"       validate:"omitempty,max=500"`
	Image      *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile  multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) ToModel(user, imageURL string, now time.Time) model.Room {
	status := availability.RoomAvailable
	if c.Status != "" {
		status = availability.RoomStatus(c.Status)
	}

	return model.Room{
		ID:         uuid.NewString(),
		PropertyID: c.PropertyID,
		CategoryID: c.CategoryID,
		Number:     c.Number,
		Floor:      c.Floor,
		Status:     status,
		Image:      imageURL,
		Notes:      c.Notes,
		Metadata:   gModel.NewMetadata(user, now),
	}
}

type UpdateRoomRequest struct {
	CategoryID *string               `db:"category_id" json:"category_id" validate:"omitempty,uuid"`
	Number     string                `db:"number"      json:"number"      validate:"omitempty,max=20"`
	Floor      *int                  `db:"floor"       json:"floor"       validate:"omitempty,min=-5,max=200"`
	Notes      string                `db:"notes"       json:"notes"       validate:"omitempty,max=500"`
	Image      *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile  multipart.File        `json:"-"`
}

type UpdateRoomStatusRequest struct {
	Status string `json:"status" validate:"required,room_status"`
}

type RoomResponse struct {
	ID         string  `json:"id"`
	PropertyID string  `json:"property_id"`
	CategoryID *string `json:"category_id"`
	Number     string  `json:"number"`
	Floor      int     `json:"floor"`
	Status     string  `json:"status"`
	Image      string  `json:"image"`
	Notes      string  `json:"notes"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(m model.Room) {
	r.ID = m.ID
	r.PropertyID = m.PropertyID
	r.CategoryID = m.CategoryID
	r.Number = m.Number
	r.Floor = m.Floor
	r.Status = string(m.Status)
	r.Image = m.Image
	r.Notes = m.Notes
	r.Metadata.FromModel(m.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}
