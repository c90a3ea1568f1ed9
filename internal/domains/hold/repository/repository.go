package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/hold/model"
	"tablebook/shared"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gRepo "tablebook/shared/repository"
	"time"
)

type Hold interface {
	Insert(ctx context.Context, hold model.Hold) error
	FindActive(ctx context.Context, tenantID, id string, now time.Time) (model.Hold, error)
	Delete(ctx context.Context, tenantID, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Hold]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Hold {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Hold](model.EntityName, model.TableName, db, otel),
		otel:       otel,
	}
}

// FindActive reads the primary so a hold is confirmable right after creation.
// Expired holds are reported as absent.
func (r *repositoryImpl) FindActive(ctx context.Context, tenantID, id string, now time.Time) (model.Hold, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hold.FindActive")
	defer scope.End()

	filter := shared.FilterByTenantAndID(tenantID, id, model.FieldID, model.TableName)
	filter.Filters = append(filter.Filters, gDto.Filter{
		Field:    model.FieldExpiresAt,
		Value:    now,
		Operator: gDto.FilterOperatorGreater,
		Table:    model.TableName,
	})

	return r.GetPrimary(ctx, filter) //nolint:wrapcheck
}

func (r *repositoryImpl) Delete(ctx context.Context, tenantID, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hold.Delete")
	defer scope.End()

	return r.Repository.Delete(ctx, shared.FilterByTenantAndID(tenantID, id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".hold.DeleteExpired")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldExpiresAt, Value: now, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		},
	}

	return r.DeleteAffected(ctx, filter) //nolint:wrapcheck
}
