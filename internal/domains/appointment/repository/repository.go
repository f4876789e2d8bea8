package repository

import (
	"context"
	"time"

	"leadflow/infras/otel"
	"leadflow/infras/postgres"
	"leadflow/internal/domains/appointment/model"
	gDto "leadflow/shared/dto"
	gRepo "leadflow/shared/repository"
)

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

type Appointment interface {
	Insert(ctx context.Context, model model.Appointment) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Appointment, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Appointment, error)
	GetActiveByEvaluatorAndDay(ctx context.Context, evaluatorID string, dayStart, dayEnd time.Time) ([]model.Appointment, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Appointment]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Appointment {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Appointment](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActiveByEvaluatorAndDay returns the evaluator's non-cancelled
// appointments whose start lies in [dayStart, dayEnd), ascending.
func (repo *repositoryImpl) GetActiveByEvaluatorAndDay(ctx context.Context, evaluatorID string, dayStart, dayEnd time.Time) ([]model.Appointment, error) {
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
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.StatusCancelled,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "date_from",
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorGreaterEq,
				Value:    dayStart,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "date_to",
				Field:    model.FieldDate,
				Operator: gDto.FilterOperatorLess,
				Value:    dayEnd,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldDate, SortDir: gDto.SortDirAsc}

	return repo.GetAll(ctx, params, filter)
}
