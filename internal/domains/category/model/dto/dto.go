package dto

import (
	"innkeep/internal/domains/category/model"
	"innkeep/shared"
	gDto "innkeep/shared/dto"
	gModel "innkeep/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateCategoryRequest struct {
	PropertyID  string `json:"property_id" validate:"required,uuid"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Capacity    int    `json:"capacity"    validate:"required,min=1,max=20"`
}

func (c *CreateCategoryRequest) ToModel(user string, now time.Time) model.Category {
	return model.Category{
		ID:          uuid.NewString(),
		PropertyID:  c.PropertyID,
		Name:        c.Name,
		Description: c.Description,
		Capacity:    c.Capacity,
		Metadata:    gModel.NewMetadata(user, now),
	}
}

type UpdateCategoryRequest struct {
	Name        string `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description string `db:"description" json:"description" validate:"omitempty,max=500"`
	Capacity    *int   `db:"capacity"    json:"capacity"    validate:"omitempty,min=1,max=20"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	PropertyID  string `json:"property_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	gDto.Metadata
}

func (r *CategoryResponse) FromModel(m model.Category) {
	r.ID = m.ID
	r.PropertyID = m.PropertyID
	r.Name = m.Name
	r.Description = m.Description
	r.Capacity = m.Capacity
	r.Metadata.FromModel(m.Metadata)
}

type GetCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetCategoriesResponse) FromModels(models []model.Category, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Categories = make([]CategoryResponse, len(models))
	for i, m := range models {
		r.Categories[i].FromModel(m)
	}
}
