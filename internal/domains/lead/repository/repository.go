package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"leadflow/infras/otel"
	"leadflow/infras/postgres"
	"leadflow/internal/domains/lead/model"
	"leadflow/shared/constant"
	gDto "leadflow/shared/dto"
	"leadflow/shared/logger"
	gRepo "leadflow/shared/repository"
	"leadflow/shared/timezone"
)

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

type Lead interface {
	Insert(ctx context.Context, model model.Lead) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Lead, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Lead, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AppendLog(ctx context.Context, leadID, column string, entry any, user string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Lead]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Lead {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Lead](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// AppendLog appends one entry to a jsonb log column (status_history,
// interactions or notes) without rewriting the array in Go.
func (repo *repositoryImpl) AppendLog(ctx context.Context, leadID, column string, entry any, user string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".lead.AppendLog")
	defer scope.End()

	payload, err := json.Marshal(entry)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to marshal log entry (lead): %w", err)
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s = %s || :entry::jsonb, modified_at = :modified_at, modified_by = :modified_by WHERE id = :id",
		model.TableName, column, column,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	args := map[string]any{
		"entry":       string(payload),
		"modified_at": timezone.Now(),
		"modified_by": user,
		"id":          leadID,
	}

	if _, err = repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to append log entry (lead): %w", err)
	}

	return nil
}
