package model

import "innkeep/shared/model"

const (
	TableName  = "room_categories"
	EntityName = "room_category"

	FieldID          = "id"
	FieldPropertyID  = "property_id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCapacity    = "capacity"
)

type Category struct {
	ID          string `db:"id"`
	PropertyID  string `db:"property_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Capacity    int    `db:"capacity"`
	model.Metadata
}
