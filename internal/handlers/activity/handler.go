package activity

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/activity/model"
	"innkeep/internal/domains/activity/service"
	"innkeep/shared/constant"
	gDto "innkeep/shared/dto"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortable = []string{model.FieldEntity, model.FieldAction, model.FieldActor, constant.FieldCreatedAt}

type Handler struct {
	service service.Activity
	otel    otel.Otel
}

func New(service service.Activity, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/activities", handler.GetActivities)
}

// GetActivities lists the audit trail of the properties the caller belongs to.
// @Summary Get activity log
// @Tags Activity
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param property_id query string false "Filter by property"
// @Param entity query string false "Filter by entity (booking, room, ...)"
// @Param entity_id query string false "Filter by entity ID"
// @Param action query string false "Filter by action"
// @Success 200 {object} response.Data[dto.GetActivitiesResponse]
// @Router /v1/activities [get]
// @Security BearerAuth
func (handler *Handler) GetActivities(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetActivities")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(sortable...)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldPropertyID, model.FieldEntity, model.FieldEntityID, model.FieldAction} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	activities, err := handler.service.List(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get activities")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, activities)
}
