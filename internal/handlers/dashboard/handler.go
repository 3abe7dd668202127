package dashboard

import (
	"net/http"

	"innkeep/infras/otel"
	"innkeep/internal/domains/dashboard/model/dto"
	"innkeep/internal/domains/dashboard/service"
	"innkeep/shared/constant"
	"innkeep/shared/validator"
	"innkeep/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dashboard
	otel    otel.Otel
}

func New(service service.Dashboard, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/dashboard/summary", handler.Summary)
}

// Summary returns the front desk figures of a property for a day.
// @Summary Dashboard summary
// @Tags Dashboard
// @Produce json
// @Param property_id query string true "Property ID"
// @Param day query string false "Day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.SummaryResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/dashboard/summary [get]
// @Security BearerAuth
func (handler *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".dashboard.Summary")
	defer scope.End()

	query := r.URL.Query()
	req := dto.SummaryQuery{
		PropertyID: query.Get(constant.RequestParamPropertyID),
		Day:        query.Get(constant.RequestParamDay),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Summary(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
