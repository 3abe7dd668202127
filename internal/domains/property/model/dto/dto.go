package dto

import (
	"innkeep/internal/domains/property/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreatePropertyRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Address  string `json:"address"  validate:"omitempty,max=255"`
	Timezone string `json:"timezone" validate:"required,timezone"`
}

func (c *CreatePropertyRequest) ToModel(user string, now time.Time) model.Property {
	return model.Property{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Address:  c.Address,
		Timezone: c.Timezone,
		Active:   true,
		Metadata: gModel.NewMetadata(user, now),
	}
}

type UpdatePropertyRequest struct {
	Name     string `db:"name"     json:"name"     validate:"omitempty,max=120"`
	Address  string `db:"address"  json:"address"  validate:"omitempty,max=255"`
	Timezone string `db:"timezone" json:"timezone" validate:"omitempty,timezone"`
	Active   *bool  `db:"active"   json:"active"   validate:"omitempty"`
}

type PropertyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Timezone string `json:"timezone"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *PropertyResponse) FromModel(m model.Property) {
	r.ID = m.ID
	r.Name = m.Name
	r.Address = m.Address
	r.Timezone = m.Timezone
	r.Active = m.Active
	r.Metadata.FromModel(m.Metadata)
}

type GetPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetPropertiesResponse) FromModels(models []model.Property, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Properties = make([]PropertyResponse, len(models))
	for i, m := range models {
		r.Properties[i].FromModel(m)
	}
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role"    validate:"required,oneof=admin staff"`
}

func (a *AddMemberRequest) ToModel(propertyID, user string, now time.Time) model.Member {
	return model.Member{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		UserID:     a.UserID,
		Role:       a.Role,
		Metadata:   gModel.NewMetadata(user, now),
	}
}

// OwnerMembership makes the creator of a property its first admin.
func OwnerMembership(propertyID, user string, now time.Time) model.Member {
	req := AddMemberRequest{UserID: user, Role: constant.RoleAdmin}

	return req.ToModel(propertyID, user, now)
}

type MemberResponse struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	Role       string `json:"role"`
	gDto.Metadata
}

func (r *MemberResponse) FromModel(m model.Member) {
	r.ID = m.ID
	r.PropertyID = m.PropertyID
	r.UserID = m.UserID
	r.UserName = m.UserName
	r.UserEmail = m.UserEmail
	r.Role = m.Role
	r.Metadata.FromModel(m.Metadata)
}

type GetMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

func (r *GetMembersResponse) FromModels(models []model.Member) {
	r.Members = make([]MemberResponse, len(models))
	for i, m := range models {
		r.Members[i].FromModel(m)
	}
}
