package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/internal/domains/booking/model"
	"tablebook/shared"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"
	gRepo "tablebook/shared/repository"
	"time"
)

const recentLimit = 20

// Booking reads and writes bookings. Reads are served by the replica unless
// the method name says otherwise, so a freshly inserted row may not be
// visible yet.
type Booking interface {
	Insert(ctx context.Context, booking model.Booking) (model.Booking, error)
	FindByID(ctx context.Context, tenantID, id string) (model.Booking, error)
	FindConflicting(ctx context.Context, tenantID string, from, to time.Time) ([]model.Booking, error)
	FindConflictingPrimary(ctx context.Context, tenantID string, from, to time.Time) ([]model.Booking, error)
	FindRecentByEmail(ctx context.Context, tenantID, email string, since time.Time) ([]model.Booking, error)
	FindByEmailBetween(ctx context.Context, tenantID, email string, from, to time.Time) ([]model.Booking, error)
	FindCreatedSince(ctx context.Context, tenantID string, since time.Time) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, db, otel),
		otel:       otel,
	}
}

// Insert writes to the primary and reads the row back from the replica. A
// zero Booking with a nil error means the write is not visible yet.
func (r *repositoryImpl) Insert(ctx context.Context, booking model.Booking) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Insert")
	defer scope.End()

	if err := r.Repository.Insert(ctx, booking); err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	created, err := r.Get(ctx, shared.FilterByTenantAndID(booking.TenantID, booking.ID, model.FieldID, model.TableName))
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to read back booking: %w", err)
	}

	return created, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, tenantID, id string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindByID")
	defer scope.End()

	return r.Get(ctx, shared.FilterByTenantAndID(tenantID, id, model.FieldID, model.TableName)) //nolint:wrapcheck
}

func (r *repositoryImpl) FindConflicting(ctx context.Context, tenantID string, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflicting")
	defer scope.End()

	return r.GetAll(ctx, byStartTime(), liveOverlapping(tenantID, from, to)) //nolint:wrapcheck
}

// FindConflictingPrimary is FindConflicting against the primary, for checks
// that must see every committed booking.
func (r *repositoryImpl) FindConflictingPrimary(ctx context.Context, tenantID string, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindConflictingPrimary")
	defer scope.End()

	return r.GetAllPrimary(ctx, byStartTime(), liveOverlapping(tenantID, from, to)) //nolint:wrapcheck
}

func (r *repositoryImpl) FindRecentByEmail(ctx context.Context, tenantID, email string, since time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindRecentByEmail")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			tenantFilter(tenantID),
			emailFilter(email),
			gDto.Filter{Field: model.FieldCreatedAt, Value: since, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		},
	}

	return r.GetAll(ctx, newestFirst(), filter) //nolint:wrapcheck
}

func (r *repositoryImpl) FindByEmailBetween(ctx context.Context, tenantID, email string, from, to time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindByEmailBetween")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			tenantFilter(tenantID),
			emailFilter(email),
			gDto.Filter{ArgName: "start_from", Field: model.FieldStartTime, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
			gDto.Filter{ArgName: "start_to", Field: model.FieldStartTime, Value: to, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		},
	}

	return r.GetAll(ctx, newestFirst(), filter) //nolint:wrapcheck
}

func (r *repositoryImpl) FindCreatedSince(ctx context.Context, tenantID string, since time.Time) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindCreatedSince")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			tenantFilter(tenantID),
			gDto.Filter{Field: model.FieldCreatedAt, Value: since, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		},
	}

	return r.GetAll(ctx, newestFirst(), filter) //nolint:wrapcheck
}

func tenantFilter(tenantID string) gDto.Filter {
	return gDto.Filter{Field: model.FieldTenantID, Value: tenantID, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

func emailFilter(email string) gDto.Filter {
	return gDto.Filter{Field: model.FieldGuestEmail, Value: email, Operator: gDto.FilterOperatorEq, Table: model.TableName}
}

// liveOverlapping matches live bookings whose occupied interval intersects [from, to).
func liveOverlapping(tenantID string, from, to time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			tenantFilter(tenantID),
			gDto.Filter{Field: model.FieldStatus, Value: model.LiveStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
			gDto.Filter{ArgName: "range_end", Field: model.FieldStartTime, Value: to, Operator: gDto.FilterOperatorLess, Table: model.TableName},
			gDto.Filter{
				Operator: gDto.FilterPlainQuery,
				Value: fmt.Sprintf("%[1]s.%[2]s + make_interval(mins => %[1]s.%[3]s) > :range_start",
					model.TableName, model.FieldStartTime, model.FieldDurationMinutes),
				Args: map[string]any{"range_start": from},
			},
		},
	}
}

func byStartTime() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.TableName + "." + model.FieldStartTime, SortDir: gDto.SortDirAsc}
}

func newestFirst() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.TableName + "." + model.FieldCreatedAt, SortDir: gDto.SortDirDesc, Limit: recentLimit}
}
