package health

//go:generate go run go.uber.org/mock/mockgen -source=./health.go -destination=./mocks/health_mock.go -package=mocks

import (
	"context"
	"tablebook/infras/otel"
	"tablebook/infras/postgres"
	"tablebook/shared/constant"

	goRedis "github.com/redis/go-redis/v9"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// Report is the reachability of each backing store.
type Report struct {
	PostgresPrimary string `json:"postgres_primary"`
	PostgresReplica string `json:"postgres_replica"`
	Redis           string `json:"redis"`
}

type Checker interface {
	Check(ctx context.Context) Report
}

type checker struct {
	db    *postgres.Connection
	redis *goRedis.Client
	otel  otel.Otel
}

func New(db *postgres.Connection, redis *goRedis.Client, otel otel.Otel) Checker {
	return &checker{
		db:    db,
		redis: redis,
		otel:  otel,
	}
}

func (c *checker) Check(ctx context.Context) Report {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".health.Check")
	defer scope.End()

	report := Report{
		PostgresPrimary: StatusUnavailable,
		PostgresReplica: StatusUnavailable,
		Redis:           StatusUnavailable,
	}

	if c.db != nil && c.db.Write != nil {
		report.PostgresPrimary = status(c.db.Write.PingContext(ctx))
	}

	if c.db != nil && c.db.Read != nil {
		report.PostgresReplica = status(c.db.Read.PingContext(ctx))
	}

	if c.redis != nil {
		report.Redis = status(c.redis.Ping(ctx).Err())
	}

	scope.SetAttributes(map[string]any{
		"health.postgres_primary": report.PostgresPrimary,
		"health.postgres_replica": report.PostgresReplica,
		"health.redis":            report.Redis,
	})

	return report
}

func status(err error) string {
	if err != nil {
		return err.Error()
	}

	return StatusOK
}
