//go:build wireinject
// +build wireinject

package di

import (
	"tablebook/config"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/infras/redis"
	"tablebook/internal/jobs/holdpurge"
	"tablebook/shared/cache"
	"tablebook/shared/health"
	"tablebook/shared/lock"
	"tablebook/shared/publisher"
	"tablebook/transport/http"
	"tablebook/transport/http/middleware"
	"tablebook/transport/http/router"

	availabilityService "tablebook/internal/domains/availability/service"
	bookingRepository "tablebook/internal/domains/booking/repository"
	holdRepository "tablebook/internal/domains/hold/repository"
	holdService "tablebook/internal/domains/hold/service"
	idempotencyRepository "tablebook/internal/domains/idempotency/repository"
	reservationService "tablebook/internal/domains/reservation/service"
	tableRepository "tablebook/internal/domains/table/repository"
	tableService "tablebook/internal/domains/table/service"

	reservationHandler "tablebook/internal/handlers/reservation"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	lock.NewRedisLocker,
	publisher.New,
	health.New,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
)

var holdDomain = wire.NewSet(
	holdRepository.New,
	holdService.New,
)

var idempotencyDomain = wire.NewSet(
	idempotencyRepository.New,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
)

var reservationDomain = wire.NewSet(
	reservationService.New,
)

var domains = wire.NewSet(
	tableDomain,
	bookingDomain,
	holdDomain,
	idempotencyDomain,
	availabilityDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	reservationHandler.New,
	router.New,
)

var jobs = wire.NewSet(
	holdpurge.New,
)

// Application is the HTTP server plus its background jobs.
type Application struct {
	HTTP      *http.HTTP
	HoldPurge *holdpurge.Job
}

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeApplication() *Application {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		jobs,
		http.New,
		wire.Struct(new(Application), "*"),
	)

	return &Application{}
}
