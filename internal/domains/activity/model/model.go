package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "activity_logs"
	EntityName = "activity_log"

	FieldID         = "id"
	FieldPropertyID = "property_id"
	FieldEntity     = "entity"
	FieldEntityID   = "entity_id"
	FieldAction     = "action"
	FieldActor      = "actor"
	FieldCreatedAt  = "created_at"
)

const (
	EntityBooking  = "booking"
	EntityRoom     = "room"
	EntityProperty = "property"
)

const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
	ActionHoldReleased  = "hold_released"
	ActionGroupCreated  = "group_created"
)

type Activity struct {
	ID         string         `db:"id"`
	PropertyID string         `db:"property_id"`
	Entity     string         `db:"entity"`
	EntityID   string         `db:"entity_id"`
	Action     string         `db:"action"`
	Actor      string         `db:"actor"`
	Payload    types.JSONText `db:"payload"`
	CreatedAt  time.Time      `db:"created_at"`
}
