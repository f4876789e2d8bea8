package campaign

import (
	"net/http"

	"leadflow/infras/otel"
	"leadflow/internal/domains/campaign/model"
	"leadflow/internal/domains/campaign/model/dto"
	"leadflow/internal/domains/campaign/service"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/validator"
	"leadflow/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Campaign
	otel    otel.Otel
}

func New(service service.Campaign, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", handler.CreateCampaign)
		r.Get("/", handler.GetCampaigns)
		r.Get("/{id}", handler.GetCampaignByID)
		r.Put("/{id}", handler.UpdateCampaign)
		r.Delete("/{id}", handler.DeleteCampaign)
	})

	// Public intake endpoint used by campaign landing pages.
	r.Post("/c/{slug}/leads", handler.IntakeLead)
}

// CreateCampaign registers a new campaign.
// @Summary Create a new campaign
// @Description Create a campaign with a unique slug for its public intake URL.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param request body dto.CreateCampaignRequest true "Create Campaign Request"
// @Success 201 {object} response.Message "Campaign created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns [post]
// @Security BearerAuth
func (handler *Handler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateCampaign")
	defer scope.End()

	req := dto.CreateCampaignRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create campaign")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Campaign created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Campaign created successfully")
}

// GetCampaigns lists campaigns with their lead counts.
// @Summary Get all campaigns
// @Description Retrieve campaigns with per-campaign lead counts and pagination.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param state query string false "Filter by state"
// @Success 200 {object} response.Data[dto.GetCampaignsResponse] "List of campaigns"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns [get]
// @Security BearerAuth
func (handler *Handler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCampaigns")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if state := r.URL.Query().Get(model.FieldState); state != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldState,
			Operator: gDto.FilterOperatorEq,
			Value:    state,
			Table:    model.TableName,
		})
	}

	campaigns, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get campaigns")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Campaigns retrieved successfully")

	response.WithJSON(w, http.StatusOK, campaigns)
}

// GetCampaignByID retrieves one campaign.
// @Summary Get a campaign by ID
// @Description Retrieve a campaign by its unique identifier.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Data[dto.CampaignResponse] "Campaign details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetCampaignByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetCampaignByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	campaign, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get campaign by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Campaign retrieved successfully")

	response.WithJSON(w, http.StatusOK, campaign)
}

// UpdateCampaign updates an existing campaign.
// @Summary Update a campaign by ID
// @Description Update a campaign's name, state, or period.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Param request body dto.UpdateCampaignRequest true "Update Campaign Request"
// @Success 200 {object} response.Message "Campaign updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateCampaign")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateCampaignRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update campaign")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Campaign updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Campaign updated successfully")
}

// DeleteCampaign removes a campaign.
// @Summary Delete a campaign by ID
// @Description Delete a campaign using its unique identifier. Leads sourced from it are kept.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param id path string true "Campaign ID"
// @Success 200 {object} response.Message "Campaign deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/campaigns/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteCampaign")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete campaign")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Campaign deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Campaign deleted successfully")
}

// IntakeLead accepts a lead submission from a campaign landing page.
// @Summary Submit a lead through a campaign
// @Description Create a lead from a public campaign form. The campaign slug sets the lead's source.
// @Tags Campaign
// @Accept json
// @Produce json
// @Param slug path string true "Campaign slug"
// @Param request body dto.CampaignLeadRequest true "Campaign Lead Request"
// @Success 201 {object} response.Message "Lead submitted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/c/{slug}/leads [post]
func (handler *Handler) IntakeLead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".IntakeLead")
	defer scope.End()

	slug := chi.URLParam(r, constant.RequestParamSlug)

	req := dto.CampaignLeadRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.IntakeLead(ctx, req, slug); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit campaign lead")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Lead submitted successfully through campaign " + slug)

	response.WithMessage(w, http.StatusCreated, "Lead submitted successfully")
}
