package availability

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/availability/model/dto"
	"innkeep/internal/domains/availability/service"
	"innkeep/shared/constant"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Post("/check", handler.Check)
		routerGroup.Post("/check-group", handler.CheckGroup)
		routerGroup.Get("/occupancy", handler.Occupancy)
		routerGroup.Get("/series", handler.Series)
		routerGroup.Get("/calendar", handler.Calendar)
		routerGroup.Get("/expired-holds", handler.ExpiredHolds)
	})
}

// Check reports whether a room is free for a stay.
// @Summary Check room availability
// @Description Adjacent stays never collide: a check-out day is free for a new check-in.
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CheckRequest true "Room and stay"
// @Success 200 {object} response.Data[dto.CheckResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/availability/check [post]
// @Security BearerAuth
func (handler *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".availability.Check")
	defer scope.End()

	req := dto.CheckRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Check(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CheckGroup reports availability room by room for a group stay.
// @Summary Check availability for several rooms
// @Tags Availability
// @Accept json
// @Produce json
// @Param request body dto.CheckGroupRequest true "Rooms and stay"
// @Success 200 {object} response.Data[dto.CheckGroupResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/check-group [post]
// @Security BearerAuth
func (handler *Handler) CheckGroup(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".availability.CheckGroup")
	defer scope.End()

	req := dto.CheckGroupRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CheckGroup(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check group availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Occupancy returns the occupancy of a property for one night.
// @Summary Occupancy for a day
// @Tags Availability
// @Produce json
// @Param property_id query string true "Property ID"
// @Param day query string false "Night (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.OccupancyResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/occupancy [get]
// @Security BearerAuth
func (handler *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".availability.Occupancy")
	defer scope.End()

	query := r.URL.Query()
	req := dto.DayQuery{
		PropertyID: query.Get(constant.RequestParamPropertyID),
		Day:        query.Get(constant.RequestParamDay),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Occupancy(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute occupancy")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Series returns occupancy for every night of [from, to).
// @Summary Occupancy series
// @Tags Availability
// @Produce json
// @Param property_id query string true "Property ID"
// @Param from query string true "First night (YYYY-MM-DD)"
// @Param to query string true "Day after the last night (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.SeriesResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/series [get]
// @Security BearerAuth
func (handler *Handler) Series(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".availability.Series")
	defer scope.End()

	req, err := rangeQuery(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Series(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute occupancy series")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Calendar returns the room by night grid of a property.
// @Summary Booking calendar
// @Tags Availability
// @Produce json
// @Param property_id query string true "Property ID"
// @Param from query string true "First night (YYYY-MM-DD)"
// @Param to query string true "Day after the last night (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.CalendarResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/calendar [get]
// @Security BearerAuth
func (handler *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".availability.Calendar")
	defer scope.End()

	req, err := rangeQuery(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Calendar(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build calendar")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ExpiredHolds previews the holds the next release would cancel.
// @Summary Expired holds
// @Tags Availability
// @Produce json
// @Param property_id query string true "Property ID"
// @Success 200 {object} response.Data[dto.ExpiredHoldsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/expired-holds [get]
// @Security BearerAuth
func (handler *Handler) ExpiredHolds(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".availability.ExpiredHolds")
	defer scope.End()

	propertyID := r.URL.Query().Get(constant.RequestParamPropertyID)
	if err := validator.ValidateVar(propertyID, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.ExpiredHolds(ctx, propertyID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list expired holds")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func rangeQuery(r *http.Request) (dto.RangeQuery, error) {
	query := r.URL.Query()
	req := dto.RangeQuery{
		PropertyID: query.Get(constant.RequestParamPropertyID),
		From:       query.Get(constant.RequestParamFrom),
		To:         query.Get(constant.RequestParamTo),
	}

	return req, validator.ValidateStruct(&req) //nolint:wrapcheck
}
