package repository

import (
	"context"

	"leadflow/infras/otel"
	"leadflow/infras/postgres"
	"leadflow/internal/domains/campaign/model"
	gDto "leadflow/shared/dto"
	gRepo "leadflow/shared/repository"
)

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

type Campaign interface {
	Insert(ctx context.Context, model model.Campaign) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Campaign, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Campaign, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Campaign]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Campaign {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Campaign](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
