package availability

import (
	"net/http"

	"leadflow/infras/otel"
	"leadflow/internal/domains/availability/model/dto"
	"leadflow/internal/domains/availability/service"
	"leadflow/shared/constant"
	"leadflow/shared/failure"
	"leadflow/shared/timezone"
	"leadflow/shared/validator"
	"leadflow/transport/http/response"

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

func (handler *Handler) Router(r chi.Router) {
	r.Route("/availability", func(r chi.Router) {
		r.Get("/", handler.GetTeamOverview)
		r.Get("/{evaluatorID}", handler.GetAvailability)
		r.Put("/{evaluatorID}/{date}", handler.SetAvailability)
	})
}

// GetTeamOverview lists every evaluator's availability for one day.
// @Summary Get the team's availability for a day
// @Description Retrieve the declared availability of all evaluators for one calendar day. Managers only see their own state.
// @Tags Availability
// @Accept json
// @Produce json
// @Param day query string true "Calendar day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.GetAvailabilitiesResponse] "Team availability"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability [get]
// @Security BearerAuth
func (handler *Handler) GetTeamOverview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTeamOverview")
	defer scope.End()

	day := r.URL.Query().Get(constant.RequestParamDay)
	if day == "" {
		day = timezone.Now().Format(constant.DateOnlyFormat)
	}

	res, err := handler.service.TeamOverview(ctx, day)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get team availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Team availability retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetAvailability reads one evaluator's availability.
// @Summary Get an evaluator's availability
// @Description Retrieve one evaluator's availability for a single day, or for a range when from/to are given.
// @Tags Availability
// @Accept json
// @Produce json
// @Param evaluatorID path string true "Evaluator ID"
// @Param day query string false "Single day (YYYY-MM-DD)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetAvailabilitiesResponse] "Evaluator availability"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{evaluatorID} [get]
// @Security BearerAuth
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	evaluatorID := chi.URLParam(r, constant.RequestParamEvaluatorID)

	from := r.URL.Query().Get(constant.RequestParamFrom)
	to := r.URL.Query().Get(constant.RequestParamTo)

	if from != "" || to != "" {
		if from == "" || to == "" {
			response.WithError(w, failure.BadRequestFromString("from and to must be given together"))

			return
		}

		res, err := handler.service.Range(ctx, evaluatorID, from, to)
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to get availability range")

			response.WithError(w, err)

			return
		}

		scope.AddEvent("Availability range retrieved successfully")

		response.WithJSON(w, http.StatusOK, res)

		return
	}

	day := r.URL.Query().Get(constant.RequestParamDay)
	if day == "" {
		day = timezone.Now().Format(constant.DateOnlyFormat)
	}

	res, err := handler.service.Get(ctx, evaluatorID, day)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// SetAvailability declares an evaluator's half-day statuses for one day.
// @Summary Set an evaluator's availability for a day
// @Description Upsert the evaluator's half-day statuses for one calendar day. Omitted halves keep their current value.
// @Tags Availability
// @Accept json
// @Produce json
// @Param evaluatorID path string true "Evaluator ID"
// @Param date path string true "Calendar day (YYYY-MM-DD)"
// @Param request body dto.SetAvailabilityRequest true "Set Availability Request"
// @Success 200 {object} response.Message "Availability saved successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/{evaluatorID}/{date} [put]
// @Security BearerAuth
func (handler *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetAvailability")
	defer scope.End()

	evaluatorID := chi.URLParam(r, constant.RequestParamEvaluatorID)
	day := chi.URLParam(r, constant.RequestParamDate)

	if _, err := timezone.Parse(constant.DateOnlyFormat, day); err != nil {
		response.WithError(w, failure.BadRequestFromString("date must use the YYYY-MM-DD format"))

		return
	}

	req := dto.SetAvailabilityRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Set(ctx, req, evaluatorID, day); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to set availability")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Availability saved successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Availability saved successfully")
}
