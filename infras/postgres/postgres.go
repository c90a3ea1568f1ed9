package postgres

//nolint:revive
import (
	"cmp"
	"fmt"
	"net"
	"net/url"
	"tablebook/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 20
	connMaxLifetime    = 30 * time.Minute
	defaultMaxRetry    = 1
	defaultTimezone    = "UTC"
)

// Connection holds the primary pool used for writes and read-after-write
// lookups, and the replica pool used for plain reads. The replica may lag.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// endpoint mirrors the DB_POSTGRES_READ and DB_POSTGRES_WRITE groups.
type endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	Timezone string
	SSLMode  string
}

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres

	return &Connection{
		Read:  connect("replica", endpoint(pg.Read), pg.Prefix, pg.MaxRetry, pg.RetryWaitTime),
		Write: connect("primary", endpoint(pg.Write), pg.Prefix, pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DSN renders the lib/pq connection url for e. Session timezone defaults to UTC
// so timestamptz values scan back in UTC.
func (e endpoint) DSN(prefix string) string {
	query := url.Values{}
	query.Set("sslmode", cmp.Or(e.SSLMode, "disable"))
	query.Set("timezone", cmp.Or(e.Timezone, defaultTimezone))

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     prefix + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func connect(role string, e endpoint, prefix string, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, defaultMaxRetry)
	logCtx := log.With().Str("role", role).Str("host", e.Host).Str("port", e.Port).Str("db", prefix+e.Name).Logger()

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect("postgres", e.DSN(prefix))
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logCtx.Info().Msg("Connected to database")

			return db
		}

		lastErr = err

		logCtx.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		if attempt < attempts {
			time.Sleep(time.Duration(waitSeconds) * time.Second)
		}
	}

	logCtx.Fatal().Err(fmt.Errorf("connect %s after %d attempts: %w", role, attempts, lastErr)).Msg("Database unavailable")

	return nil
}
