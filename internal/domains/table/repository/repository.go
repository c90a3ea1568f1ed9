package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/table/model"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gRepo "tablebook/shared/repository"
)

type Table interface {
	ListActive(ctx context.Context, tenantID string) ([]model.Table, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Table]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Table {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Table](model.EntityName, model.TableName, db, otel),
		otel:       otel,
	}
}

// ListActive returns the tenant's active tables ordered by capacity, then name.
func (r *repositoryImpl) ListActive(ctx context.Context, tenantID string) ([]model.Table, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table.ListActive")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldTenantID, Value: tenantID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldCapacity + ", " + model.TableName + "." + model.FieldName,
		SortDir: gDto.SortDirAsc,
	}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}
