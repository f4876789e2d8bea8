package lead

import (
	"net/http"

	"leadflow/infras/otel"
	"leadflow/internal/domains/lead/model"
	"leadflow/internal/domains/lead/model/dto"
	"leadflow/internal/domains/lead/service"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/validator"
	"leadflow/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Lead
	otel    otel.Otel
}

func New(service service.Lead, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Post("/", handler.CreateLead)
		r.Get("/", handler.GetLeads)
		r.Get("/{id}", handler.GetLeadByID)
		r.Put("/{id}", handler.UpdateLead)
		r.Delete("/{id}", handler.DeleteLead)
		r.Patch("/{id}/status", handler.UpdateLeadStatus)
		r.Post("/{id}/assign", handler.AssignLead)
		r.Post("/{id}/calls", handler.LogCall)
		r.Post("/{id}/notes", handler.AddNote)
	})
}

// CreateLead registers a new lead.
// @Summary Create a new lead
// @Description Create a new lead with the provided contact and qualification details.
// @Tags Lead
// @Accept json
// @Produce json
// @Param request body dto.CreateLeadRequest true "Create Lead Request"
// @Success 201 {object} response.Message "Lead created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads [post]
// @Security BearerAuth
func (handler *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateLead")
	defer scope.End()

	req := dto.CreateLeadRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create lead")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Lead created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Lead created successfully")
}

// GetLeads lists leads.
// @Summary Get all leads
// @Description Retrieve leads with optional filtering and pagination. Evaluators only see leads assigned to them.
// @Tags Lead
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by pipeline status"
// @Param state query string false "Filter by state"
// @Param assigned_user_id query string false "Filter by assigned user"
// @Param source query string false "Filter by source campaign"
// @Success 200 {object} response.Data[dto.GetLeadsResponse] "List of leads"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads [get]
// @Security BearerAuth
func (handler *Handler) GetLeads(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLeads")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldStatus, model.FieldState, model.FieldAssignedUserID, model.FieldSource} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	leads, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get leads")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Leads retrieved successfully")

	response.WithJSON(w, http.StatusOK, leads)
}

// GetLeadByID retrieves one lead.
// @Summary Get a lead by ID
// @Description Retrieve a lead with its status history, interactions, and notes.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Data[dto.LeadResponse] "Lead details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetLeadByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLeadByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	lead, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get lead by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Lead retrieved successfully")

	response.WithJSON(w, http.StatusOK, lead)
}

// UpdateLead updates contact and qualification details.
// @Summary Update a lead by ID
// @Description Update a lead's contact and qualification details.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.UpdateLeadRequest true "Update Lead Request"
// @Success 200 {object} response.Message "Lead updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateLeadRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update lead")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Lead updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Lead updated successfully")
}

// UpdateLeadStatus moves a lead through the pipeline.
// @Summary Update a lead's pipeline status
// @Description Change the lead's pipeline status and append the transition to its history.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.UpdateLeadStatusRequest true "Update Lead Status Request"
// @Success 200 {object} response.Message "Lead status updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLeadStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateLeadStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update lead status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Lead status updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Lead status updated successfully")
}

// AssignLead hands a lead to an evaluator.
// @Summary Assign a lead to an evaluator
// @Description Assign the lead to an evaluator operating in the lead's state.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.AssignLeadRequest true "Assign Lead Request"
// @Success 200 {object} response.Message "Lead assigned successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/assign [post]
// @Security BearerAuth
func (handler *Handler) AssignLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignLead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AssignLeadRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Assign(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign lead")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Lead assigned successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Lead assigned successfully")
}

// LogCall appends a call attempt to the lead's interactions.
// @Summary Log a call against a lead
// @Description Record a call attempt with its connection status and optional remarks.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.LogCallRequest true "Log Call Request"
// @Success 201 {object} response.Message "Call logged successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/calls [post]
// @Security BearerAuth
func (handler *Handler) LogCall(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LogCall")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.LogCallRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.LogCall(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to log call")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Call logged successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Call logged successfully")
}

// AddNote appends a free-form note to the lead.
// @Summary Add a note to a lead
// @Description Append a free-form note to the lead's notes log.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param request body dto.AddNoteRequest true "Add Note Request"
// @Success 201 {object} response.Message "Note added successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id}/notes [post]
// @Security BearerAuth
func (handler *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddNote")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddNoteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.AddNote(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add note")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Note added successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Note added successfully")
}

// DeleteLead removes a lead.
// @Summary Delete a lead by ID
// @Description Delete a lead using its unique identifier.
// @Tags Lead
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} response.Message "Lead deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/leads/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteLead")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete lead")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Lead deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Lead deleted successfully")
}
