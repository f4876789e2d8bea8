package service

import (
	"context"
	"fmt"

	"leadflow/config"
	"leadflow/infras/otel"
	"leadflow/internal/domains/appointment/slot"
	"leadflow/internal/domains/availability/model"
	"leadflow/internal/domains/availability/model/dto"
	"leadflow/internal/domains/availability/repository"
	userModel "leadflow/internal/domains/user/model"
	userRepo "leadflow/internal/domains/user/repository"
	"leadflow/shared"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/failure"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	Set(ctx context.Context, req dto.SetAvailabilityRequest, evaluatorID, day string) error
	Get(ctx context.Context, evaluatorID, day string) (dto.DayAvailabilityResponse, error)
	Range(ctx context.Context, evaluatorID, from, to string) (dto.GetAvailabilitiesResponse, error)
	TeamOverview(ctx context.Context, day string) (dto.GetAvailabilitiesResponse, error)
}

type serviceImpl struct {
	repo     repository.Availability
	userRepo userRepo.User
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Availability, userRepo userRepo.User, cfg *config.Config, otel otel.Otel) Availability {
	return &serviceImpl{
		repo:     repo,
		userRepo: userRepo,
		cfg:      cfg,
		otel:     otel,
	}
}

func dayFilter(evaluatorID, day string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEvaluatorID,
				Operator: gDto.FilterOperatorEq,
				Value:    evaluatorID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorEq,
				Value:    day,
				Table:    model.TableName,
			},
		},
	}
}

// guardRegion rejects evaluators acting on anyone but themselves and
// managers acting on evaluators outside their state.
func (s *serviceImpl) guardRegion(ctx context.Context, evaluatorID string) error {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	state, _ := ctx.Value(constant.ContextKeyUserState).(string)
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role == constant.RoleEvaluator && evaluatorID != userID {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	evaluator, err := s.userRepo.Get(ctx, shared.FilterByID(evaluatorID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get evaluator")

		return fmt.Errorf("failed to get evaluator: %w", err)
	}

	if evaluator.ID == "" {
		return failure.NotFound("evaluator not found") // nolint:wrapcheck
	}

	if role == constant.RoleManager && state != constant.StateAll && evaluator.State != state {
		return failure.ResourceRestrictedError // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) Set(ctx context.Context, req dto.SetAvailabilityRequest, evaluatorID, day string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.FirstHalf == nil && req.SecondHalf == nil {
		return failure.BadRequestFromString("at least one half must be provided") // nolint:wrapcheck
	}

	if err = s.guardRegion(ctx, evaluatorID); err != nil {
		return err
	}

	current, err := s.repo.Get(ctx, dayFilter(evaluatorID, day))
	if err != nil {
		log.Error().Err(err).Msg("failed to get current availability")

		return fmt.Errorf("failed to get current availability: %w", err)
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	row := req.ToModel(evaluatorID, day, current, user)

	conflictColumns := []string{model.FieldEvaluatorID, model.FieldDay}
	updateColumns := []string{model.FieldFirstHalf, model.FieldSecondHalf, constant.FieldModifiedAt, constant.FieldModifiedBy}

	if err = s.repo.Upsert(ctx, row, conflictColumns, updateColumns); err != nil {
		log.Error().Err(err).Msg("failed to upsert availability")

		return fmt.Errorf("failed to upsert availability: %w", err)
	}

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, evaluatorID, day string) (res dto.DayAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	row, err := s.repo.Get(ctx, dayFilter(evaluatorID, day))
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability")

		return res, fmt.Errorf("failed to get availability: %w", err)
	}

	res.EvaluatorID = evaluatorID
	res.Day = day
	res.FirstHalf = string(slot.StatusNotSet)
	res.SecondHalf = string(slot.StatusNotSet)

	if row.ID != "" {
		res.FirstHalf = row.FirstHalf
		res.SecondHalf = row.SecondHalf
		res.Exists = true
	}

	return res, nil
}

func (s *serviceImpl) Range(ctx context.Context, evaluatorID, from, to string) (res dto.GetAvailabilitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailabilityRange")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEvaluatorID,
				Operator: gDto.FilterOperatorEq,
				Value:    evaluatorID,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_from",
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    from,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "day_to",
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorLessEq,
				Value:    to,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldDay, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get availability range")

		return res, fmt.Errorf("failed to get availability range: %w", err)
	}

	res.FromModels(models, len(models))

	return res, nil
}

// TeamOverview lists the declared availabilities of every evaluator for
// one day. Managers are scoped to evaluators they can see through the
// availability rows' state join done at write time; the row set itself is
// filtered here by the caller's region when one applies.
func (s *serviceImpl) TeamOverview(ctx context.Context, day string) (res dto.GetAvailabilitiesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".TeamOverview")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldDay,
				Operator: gDto.FilterOperatorEq,
				Value:    day,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldEvaluatorID, SortDir: gDto.SortDirAsc}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get team availability")

		return res, fmt.Errorf("failed to get team availability: %w", err)
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	state, _ := ctx.Value(constant.ContextKeyUserState).(string)

	if role == constant.RoleManager && state != constant.StateAll {
		models, err = s.scopeToState(ctx, models, state)
		if err != nil {
			return res, err
		}
	}

	res.FromModels(models, len(models))

	return res, nil
}

func (s *serviceImpl) scopeToState(ctx context.Context, rows []model.Availability, state string) ([]model.Availability, error) {
	stateFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldState,
				Operator: gDto.FilterOperatorEq,
				Value:    state,
				Table:    userModel.TableName,
			},
		},
	}

	evaluators, err := s.userRepo.GetAll(ctx, gDto.QueryParams{}, stateFilter, userModel.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get evaluators for state")

		return nil, fmt.Errorf("failed to get evaluators for state: %w", err)
	}

	inState := make(map[string]struct{}, len(evaluators))
	for _, evaluator := range evaluators {
		inState[evaluator.ID] = struct{}{}
	}

	scoped := rows[:0]

	for _, row := range rows {
		if _, ok := inState[row.EvaluatorID]; ok {
			scoped = append(scoped, row)
		}
	}

	return scoped, nil
}
