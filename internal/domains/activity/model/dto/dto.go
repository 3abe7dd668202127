package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"innkeep/internal/domains/activity/model"
	"innkeep/shared"
	"innkeep/shared/constant"
	"innkeep/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// Entry describes something that happened to an entity of a property.
type Entry struct {
	PropertyID string
	Entity     string
	EntityID   string
	Action     string
	Payload    any
}

func (e Entry) ToModel(actor string, now time.Time) (model.Activity, error) {
	payload := types.JSONText("{}")

	if e.Payload != nil {
		encoded, err := json.Marshal(e.Payload)
		if err != nil {
			return model.Activity{}, fmt.Errorf("failed to encode activity payload: %w", err)
		}

		payload = encoded
	}

	return model.Activity{
		ID:         uuid.NewString(),
		PropertyID: e.PropertyID,
		Entity:     e.Entity,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Actor:      actor,
		Payload:    payload,
		CreatedAt:  now,
	}, nil
}

// Event is the message published for every recorded activity.
type Event struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"property_id"`
	Type       string          `json:"type"`
	EntityID   string          `json:"entity_id"`
	Actor      string          `json:"actor"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt string          `json:"occurred_at"`
}

func (e *Event) FromModel(m model.Activity) {
	e.ID = m.ID
	e.PropertyID = m.PropertyID
	e.Type = m.Entity + "." + m.Action
	e.EntityID = m.EntityID
	e.Actor = m.Actor
	e.Payload = json.RawMessage(m.Payload)
	e.OccurredAt = timezone.Format(m.CreatedAt, constant.DateFormat)
}

type ActivityResponse struct {
	ID         string          `json:"id"`
	PropertyID string          `json:"property_id"`
	Entity     string          `json:"entity"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	Actor      string          `json:"actor"`
	Payload    json.RawMessage `json:"payload"   swaggertype:"object"`
	CreatedAt  string          `json:"created_at"`
}

func (r *ActivityResponse) FromModel(m model.Activity) {
	r.ID = m.ID
	r.PropertyID = m.PropertyID
	r.Entity = m.Entity
	r.EntityID = m.EntityID
	r.Action = m.Action
	r.Actor = m.Actor
	r.Payload = json.RawMessage(m.Payload)
	r.CreatedAt = timezone.Format(m.CreatedAt, constant.DateFormat)
}

type GetActivitiesResponse struct {
	Activities []ActivityResponse `json:"activities"`
	TotalPage  int                `json:"total_page"`
	TotalData  int                `json:"total_data"`
}

func (r *GetActivitiesResponse) FromModels(models []model.Activity, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Activities = make([]ActivityResponse, len(models))
	for i, m := range models {
		r.Activities[i].FromModel(m)
	}
}
