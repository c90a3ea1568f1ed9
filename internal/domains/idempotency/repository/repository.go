package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/idempotency/model"
	"tablebook/shared"
	"tablebook/shared/constant"
	gRepo "tablebook/shared/repository"
)

// Idempotency stores one confirm outcome per (tenant, key). Reads go to the
// primary; a replay must never miss a committed record.
type Idempotency interface {
	Get(ctx context.Context, tenantID, key string) (model.Record, error)
	Put(ctx context.Context, record model.Record) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Record]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Idempotency {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Record](model.EntityName, model.TableName, db, otel),
		otel:       otel,
	}
}

// Get returns a zero Record when no outcome is stored for key.
func (r *repositoryImpl) Get(ctx context.Context, tenantID, key string) (model.Record, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".idempotency.Get")
	defer scope.End()

	record, err := r.GetPrimary(ctx, shared.FilterByTenantAndID(tenantID, key, model.FieldKey, model.TableName))
	if err != nil {
		return model.Record{}, fmt.Errorf("failed to read idempotency record: %w", err)
	}

	return record, nil
}

// Put stores record unless the key already holds an outcome. It reports
// whether this call's record was the one stored.
func (r *repositoryImpl) Put(ctx context.Context, record model.Record) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".idempotency.Put")
	defer scope.End()

	stored, err := r.InsertIgnore(ctx, record, model.FieldTenantID, model.FieldKey)
	if err != nil {
		return false, fmt.Errorf("failed to store idempotency record: %w", err)
	}

	return stored, nil
}
