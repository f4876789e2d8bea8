package service

import (
	"context"
	"fmt"

	"leadflow/config"
	"leadflow/infras/otel"
	"leadflow/internal/domains/campaign/model"
	"leadflow/internal/domains/campaign/model/dto"
	"leadflow/internal/domains/campaign/repository"
	leadModel "leadflow/internal/domains/lead/model"
	leadDto "leadflow/internal/domains/lead/model/dto"
	leadRepo "leadflow/internal/domains/lead/repository"
	"leadflow/shared"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/failure"

	"github.com/rs/zerolog/log"
)

type Campaign interface {
	Create(ctx context.Context, req dto.CreateCampaignRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetCampaignsResponse, error)
	Get(ctx context.Context, id string) (dto.CampaignResponse, error)
	Update(ctx context.Context, req dto.UpdateCampaignRequest, id string) error
	Delete(ctx context.Context, id string) error
	IntakeLead(ctx context.Context, req dto.CampaignLeadRequest, slug string) error
}

type serviceImpl struct {
	repo     repository.Campaign
	leadRepo leadRepo.Lead
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Campaign, leadRepo leadRepo.Lead, cfg *config.Config, otel otel.Otel) Campaign {
	return &serviceImpl{
		repo:     repo,
		leadRepo: leadRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

func slugFilter(slug string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldSlug,
				Operator: gDto.FilterOperatorEq,
				Value:    slug,
				Table:    model.TableName,
			},
		},
	}
}

func (s *serviceImpl) leadCount(ctx context.Context, campaignName string) (int, error) {
	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    leadModel.FieldSource,
				Operator: gDto.FilterOperatorEq,
				Value:    campaignName,
				Table:    leadModel.TableName,
			},
		},
	}

	count, err := s.leadRepo.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count campaign leads: %w", err)
	}

	return count, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateCampaignRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCampaign")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, slugFilter(req.Slug))
	if err != nil {
		log.Error().Err(err).Msg("failed to check campaign slug")

		return fmt.Errorf("failed to check campaign slug: %w", err)
	}

	if exist {
		return failure.Conflict("campaign slug is already taken") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create campaign")

		return fmt.Errorf("failed to create campaign: %w", err)
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetCampaignsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllCampaigns")
	defer scope.End()
	defer scope.TraceIfError(err)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count campaigns")

		return res, fmt.Errorf("failed to count campaigns: %w", err)
	}

	campaigns, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get campaigns")

		return res, fmt.Errorf("failed to get campaigns: %w", err)
	}

	leadCounts := make(map[string]int, len(campaigns))

	for _, campaign := range campaigns {
		count, err := s.leadCount(ctx, campaign.Name)
		if err != nil {
			log.Error().Err(err).Str("campaign", campaign.Slug).Msg("failed to count campaign leads")

			return res, err
		}

		leadCounts[campaign.ID] = count
	}

	res.FromModels(campaigns, leadCounts, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CampaignResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCampaign")
	defer scope.End()
	defer scope.TraceIfError(err)

	campaign, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get campaign")

		return res, fmt.Errorf("failed to get campaign: %w", err)
	}

	if campaign.ID == constant.Empty {
		return res, failure.NotFound("campaign not found") // nolint:wrapcheck
	}

	count, err := s.leadCount(ctx, campaign.Name)
	if err != nil {
		log.Error().Err(err).Msg("failed to count campaign leads")

		return res, err
	}

	res.FromModel(campaign, count)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateCampaignRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateCampaign")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateCampaignRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if campaign exists")

		return fmt.Errorf("failed to check if campaign exists: %w", err)
	}

	if !exist {
		return failure.NotFound("campaign not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update campaign")

		return fmt.Errorf("failed to update campaign: %w", err)
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteCampaign")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if campaign exists")

		return fmt.Errorf("failed to check if campaign exists: %w", err)
	}

	if !exist {
		return failure.NotFound("campaign not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete campaign")

		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	return nil
}

// IntakeLead creates a lead from the public campaign form. The campaign
// name becomes the lead source so funnel reporting can group by campaign.
func (s *serviceImpl) IntakeLead(ctx context.Context, req dto.CampaignLeadRequest, slug string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IntakeLead")
	defer scope.End()
	defer scope.TraceIfError(err)

	campaign, err := s.repo.Get(ctx, slugFilter(slug))
	if err != nil {
		log.Error().Err(err).Msg("failed to get campaign")

		return fmt.Errorf("failed to get campaign: %w", err)
	}

	if campaign.ID == constant.Empty {
		return failure.NotFound("campaign not found") // nolint:wrapcheck
	}

	leadReq := leadDto.CreateLeadRequest{
		Name:   req.Name,
		City:   req.City,
		State:  req.State,
		Source: campaign.Name,
		Phone:  req.Phone,
		Email:  req.Email,
	}

	if err = s.leadRepo.Insert(ctx, leadReq.ToModel(constant.ContextGuest)); err != nil {
		log.Error().Err(err).Msg("failed to create campaign lead")

		return fmt.Errorf("failed to create campaign lead: %w", err)
	}

	return nil
}
