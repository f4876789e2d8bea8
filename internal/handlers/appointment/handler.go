package appointment

import (
	"net/http"

	"leadflow/infras/otel"
	"leadflow/internal/domains/appointment/model"
	"leadflow/internal/domains/appointment/model/dto"
	"leadflow/internal/domains/appointment/service"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/failure"
	"leadflow/shared/timezone"
	"leadflow/shared/validator"
	"leadflow/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Appointment
	otel    otel.Otel
}

func New(service service.Appointment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", handler.BookAppointment)
		r.Get("/", handler.GetAppointments)
		r.Get("/slots", handler.GetSlots)
		r.Get("/bookable-dates", handler.GetBookableDates)
		r.Get("/{id}", handler.GetAppointmentByID)
		r.Patch("/{id}/status", handler.UpdateAppointmentStatus)
		r.Delete("/{id}", handler.DeleteAppointment)
	})
}

// GetSlots lists the open slot starts for an evaluator's half day.
// @Summary Get open slots for a half day
// @Description Recompute the bookable slot starts for one evaluator, day, and half from current availability and bookings.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param evaluator_id query string true "Evaluator ID"
// @Param date query string true "Calendar day (YYYY-MM-DD)"
// @Param half query string true "Half of the day (first_half or second_half)"
// @Success 200 {object} response.Data[dto.SlotsResponse] "Open slots"
// @Failure 400 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	evaluatorID := r.URL.Query().Get(model.FieldEvaluatorID)
	date := r.URL.Query().Get(constant.RequestParamDate)
	half := r.URL.Query().Get(constant.RequestParamHalf)

	if evaluatorID == "" || date == "" {
		response.WithError(w, failure.BadRequestFromString("evaluator_id and date are required"))

		return
	}

	res, err := handler.service.Slots(ctx, evaluatorID, date, half)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// GetBookableDates evaluates which days of a range can take a booking.
// @Summary Get bookable dates for an evaluator
// @Description Evaluate each day of an inclusive range against the evaluator's availability.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param evaluator_id query string true "Evaluator ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.BookableDatesResponse] "Bookable dates"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments/bookable-dates [get]
// @Security BearerAuth
func (handler *Handler) GetBookableDates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookableDates")
	defer scope.End()

	evaluatorID := r.URL.Query().Get(model.FieldEvaluatorID)
	from := r.URL.Query().Get(constant.RequestParamFrom)
	to := r.URL.Query().Get(constant.RequestParamTo)

	if evaluatorID == "" || from == "" || to == "" {
		response.WithError(w, failure.BadRequestFromString("evaluator_id, from, and to are required"))

		return
	}

	res, err := handler.service.BookableDates(ctx, evaluatorID, from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookable dates")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookable dates retrieved successfully")

	response.WithJSON(w, http.StatusOK, res)
}

// BookAppointment books a slot for a lead.
// @Summary Book an appointment
// @Description Book one slot for a lead against an evaluator's half day. The slot is revalidated against current state before committing.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param request body dto.BookAppointmentRequest true "Book Appointment Request"
// @Success 201 {object} response.Data[dto.AppointmentResponse] "Appointment booked successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments [post]
// @Security BearerAuth
func (handler *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BookAppointment")
	defer scope.End()

	req := dto.BookAppointmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Book(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to book appointment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Appointment booked successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAppointments lists appointments.
// @Summary Get all appointments
// @Description Retrieve appointments with optional filtering and pagination. Evaluators only see their own schedule.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (Booked, Completed, Cancelled, Rescheduled)"
// @Param lead_id query string false "Filter by lead"
// @Param date query string false "Filter by calendar day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetAppointmentsResponse] "List of appointments"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments [get]
// @Security BearerAuth
func (handler *Handler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAppointments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldStatus, model.FieldLeadID} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if value := r.URL.Query().Get(constant.RequestParamDate); value != "" {
		day, err := timezone.Parse(constant.DateOnlyFormat, value)
		if err != nil {
			response.WithError(w, failure.BadRequestFromString("date must use the YYYY-MM-DD format"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters,
			gDto.Filter{
				ArgName:  "day_from",
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    day,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_to",
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorLess,
				Value:    day.AddDate(0, 0, 1),
				Table:    model.TableName,
			},
		)
	}

	appointments, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get appointments")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Appointments retrieved successfully")

	response.WithJSON(w, http.StatusOK, appointments)
}

// GetAppointmentByID retrieves one appointment.
// @Summary Get an appointment by ID
// @Description Retrieve an appointment by its unique identifier.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Data[dto.AppointmentResponse] "Appointment details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAppointmentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAppointmentByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	appointment, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get appointment by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Appointment retrieved successfully")

	response.WithJSON(w, http.StatusOK, appointment)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
// @Summary Update an appointment's status
// @Description Mark an appointment Completed, Cancelled, or Rescheduled. Cancelling frees its slot.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Param request body dto.UpdateAppointmentStatusRequest true "Update Appointment Status Request"
// @Success 200 {object} response.Message "Appointment status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/appointments/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateAppointmentStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateAppointmentStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update appointment status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Appointment status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Appointment status updated successfully")
}

// DeleteAppointment removes an appointment.
// @Summary Delete an appointment by ID
// @Description Delete an appointment using its unique identifier. Deleting an unknown ID is a no-op.
// @Tags Appointment
// @Accept json
// @Produce json
// @Param id path string true "Appointment ID"
// @Success 200 {object} response.Message "Appointment deleted successfully"
// @Failure 500 {object} response.Error
// @Router /v1/appointments/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteAppointment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete appointment")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Appointment deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Appointment deleted successfully")
}
