package service

import (
	"context"
	"fmt"

	"leadflow/config"
	"leadflow/infras/otel"
	"leadflow/internal/domains/lead/model"
	"leadflow/internal/domains/lead/model/dto"
	"leadflow/internal/domains/lead/repository"
	userModel "leadflow/internal/domains/user/model"
	userRepo "leadflow/internal/domains/user/repository"
	"leadflow/shared"
	"leadflow/shared/cache"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/failure"
	"leadflow/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetLead    = "lead:get"
	cacheGetAllLead = "lead:get_all"
	cacheCountLead  = "lead:count"
)

type Lead interface {
	Create(ctx context.Context, req dto.CreateLeadRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetLeadsResponse, error)
	Get(ctx context.Context, id string) (dto.LeadResponse, error)
	Update(ctx context.Context, req dto.UpdateLeadRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateLeadStatusRequest, id string) error
	Assign(ctx context.Context, req dto.AssignLeadRequest, id string) error
	LogCall(ctx context.Context, req dto.LogCallRequest, id string) error
	AddNote(ctx context.Context, req dto.AddNoteRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Lead
	userRepo userRepo.User
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Lead, userRepo userRepo.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Lead {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context, ids ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		for _, id := range ids {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetLead, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete lead cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllLead)
		shared.InvalidateCaches(c, s.cache, cacheCountLead)
	}()
}

// scopeFilter narrows list queries by the caller's role: evaluators see
// their assigned leads, managers their state, admins everything.
func scopeFilter(ctx context.Context, filter gDto.FilterGroup) gDto.FilterGroup {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	state, _ := ctx.Value(constant.ContextKeyUserState).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	switch role {
	case constant.RoleEvaluator:
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldAssignedUserID,
			Operator: gDto.FilterOperatorEq,
			Value:    userID,
			Table:    model.TableName,
		})
	case constant.RoleManager:
		if state != constant.StateAll {
			filter.Filters = append(filter.Filters, gDto.Filter{
				Field:    model.FieldState,
				Operator: gDto.FilterOperatorEq,
				Value:    state,
				Table:    model.TableName,
			})
		}
	}

	return filter
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateLeadRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateLead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create lead")

		return fmt.Errorf("failed to create lead: %w", err)
	}

	s.invalidateListCaches(ctx)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetLeadsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAllLeads")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter = scopeFilter(ctx, filter)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllLead, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for leads")

		return res, nil
	}

	total, err := s.count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	leads, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get leads")

		return res, fmt.Errorf("failed to get leads: %w", err)
	}

	res.FromModels(leads, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save leads to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountLead, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count leads")

		return total, fmt.Errorf("failed to count leads: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lead count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.LeadResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetLead")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetLead, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for lead")

		return res, nil
	}

	lead, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get lead")

		return res, fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.ID == constant.Empty {
		return res, failure.NotFound("lead not found") // nolint:wrapcheck
	}

	res.FromModel(lead)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save lead to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateLeadRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateLead")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateLeadRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if lead exists")

		return fmt.Errorf("failed to check if lead exists: %w", err)
	}

	if !exist {
		return failure.NotFound("lead not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update lead")

		return fmt.Errorf("failed to update lead: %w", err)
	}

	s.invalidateListCaches(ctx, id)

	return nil
}

// UpdateStatus moves the lead through the pipeline and appends the
// transition to status_history.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateLeadStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateLeadStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	lead, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldStatus)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lead")

		return fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.ID == constant.Empty {
		return failure.NotFound("lead not found") // nolint:wrapcheck
	}

	if lead.Status == req.Status {
		return nil
	}

	fields := map[string]any{
		model.FieldStatus:        req.Status,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update lead status")

		return fmt.Errorf("failed to update lead status: %w", err)
	}

	entry := model.StatusHistoryEntry{Status: req.Status, ChangedBy: user, ChangedAt: timezone.Now()}

	if err = s.repo.AppendLog(ctx, id, model.FieldStatusHistory, entry, user); err != nil {
		log.Error().Err(err).Msg("failed to append status history")

		return fmt.Errorf("failed to append status history: %w", err)
	}

	s.invalidateListCaches(ctx, id)

	return nil
}

// Assign hands the lead to an evaluator in the lead's state.
func (s *serviceImpl) Assign(ctx context.Context, req dto.AssignLeadRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AssignLead")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	lead, err := s.repo.Get(ctx, filter, model.FieldID, model.FieldState)
	if err != nil {
		log.Error().Err(err).Msg("failed to get lead")

		return fmt.Errorf("failed to get lead: %w", err)
	}

	if lead.ID == constant.Empty {
		return failure.NotFound("lead not found") // nolint:wrapcheck
	}

	evaluator, err := s.userRepo.Get(ctx, shared.FilterByID(req.EvaluatorID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get evaluator")

		return fmt.Errorf("failed to get evaluator: %w", err)
	}

	if evaluator.ID == constant.Empty || evaluator.Role != constant.RoleEvaluator {
		return failure.BadRequestFromString("assignee must be an evaluator") // nolint:wrapcheck
	}

	if evaluator.State != constant.StateAll && evaluator.State != lead.State {
		return failure.UnprocessableEntity("evaluator is outside the lead's state") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldAssignedUserID: req.EvaluatorID,
		constant.FieldModifiedAt:  timezone.Now(),
		constant.FieldModifiedBy:  user,
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to assign lead")

		return fmt.Errorf("failed to assign lead: %w", err)
	}

	s.invalidateListCaches(ctx, id)

	return nil
}

func (s *serviceImpl) LogCall(ctx context.Context, req dto.LogCallRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LogCall")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if lead exists")

		return fmt.Errorf("failed to check if lead exists: %w", err)
	}

	if !exist {
		return failure.NotFound("lead not found") // nolint:wrapcheck
	}

	if err = s.repo.AppendLog(ctx, id, model.FieldInteractions, req.ToInteraction(user), user); err != nil {
		log.Error().Err(err).Msg("failed to log call")

		return fmt.Errorf("failed to log call: %w", err)
	}

	s.invalidateListCaches(ctx, id)

	return nil
}

func (s *serviceImpl) AddNote(ctx context.Context, req dto.AddNoteRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddNote")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if lead exists")

		return fmt.Errorf("failed to check if lead exists: %w", err)
	}

	if !exist {
		return failure.NotFound("lead not found") // nolint:wrapcheck
	}

	if err = s.repo.AppendLog(ctx, id, model.FieldNotes, req.ToNote(user), user); err != nil {
		log.Error().Err(err).Msg("failed to add note")

		return fmt.Errorf("failed to add note: %w", err)
	}

	s.invalidateListCaches(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteLead")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if lead exists")

		return fmt.Errorf("failed to check if lead exists: %w", err)
	}

	if !exist {
		return failure.NotFound("lead not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete lead")

		return fmt.Errorf("failed to delete lead: %w", err)
	}

	s.invalidateListCaches(ctx, id)

	return nil
}
