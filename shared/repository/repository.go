package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/shared/constant"
	"tablebook/shared/dto"
	"tablebook/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

// Repository is a generic sqlx repository over a read replica and a primary.
// Plain reads go to the replica, which may lag behind writes; the *Primary
// variants read from the write pool. Every column tagged db on T is selected
// and inserted.
type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	entity  string
	columns []string
}

func NewRepository[T any](entity, table string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	return Repository[T]{
		db:      db,
		otel:    otl,
		table:   table,
		entity:  entity,
		columns: columnsOf(reflect.TypeFor[T]()),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	query := insertQuery(repo.table, repo.columns, nil)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

// InsertIgnore inserts model unless a row already holds the same conflict
// columns. It reports whether this call wrote the row.
func (repo *Repository[T]) InsertIgnore(ctx context.Context, model T, conflictColumns ...string) (bool, error) {
	ctx, scope := repo.scope(ctx, "InsertIgnore")
	defer scope.End()

	query := insertQuery(repo.table, repo.columns, conflictColumns)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, model)
	if err != nil {
		return false, repo.fail(scope, "insert data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, repo.fail(scope, "read affected rows", err)
	}

	return affected > 0, nil
}

// Get returns the first match from the replica, or the zero T when none.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	return repo.get(ctx, scope, repo.db.Read, filter)
}

// GetPrimary is Get against the primary.
func (repo *Repository[T]) GetPrimary(ctx context.Context, filter dto.FilterGroup) (T, error) {
	ctx, scope := repo.scope(ctx, "GetPrimary")
	defer scope.End()

	return repo.get(ctx, scope, repo.db.Write, filter)
}

func (repo *Repository[T]) get(ctx context.Context, scope otel.Scope, db *sqlx.DB, filter dto.FilterGroup) (T, error) {
	var model T

	where, args := whereClause(filter)
	query := selectQuery(repo.table, repo.columns, where, dto.QueryParams{Limit: 1}, args)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return model, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	return repo.getAll(ctx, scope, repo.db.Read, params, filter)
}

// GetAllPrimary is GetAll against the primary.
func (repo *Repository[T]) GetAllPrimary(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAllPrimary")
	defer scope.End()

	return repo.getAll(ctx, scope, repo.db.Write, params, filter)
}

func (repo *Repository[T]) getAll(ctx context.Context, scope otel.Scope, db *sqlx.DB, params dto.QueryParams, filter dto.FilterGroup) ([]T, error) {
	models := []T{}

	where, args := whereClause(filter)
	query := selectQuery(repo.table, repo.columns, where, params, args)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err := stmt.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	_, err := repo.DeleteAffected(ctx, filter)

	return err
}

// DeleteAffected deletes the matching rows and returns how many were removed.
// An empty filter is refused.
func (repo *Repository[T]) DeleteAffected(ctx context.Context, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s%s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.fail(scope, "delete data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}
