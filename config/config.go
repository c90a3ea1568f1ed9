package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresEndpoint is one postgres server, either the primary or a replica.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"tablebook"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			Enable           bool     `envconfig:"ENABLE"`
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST" default:"localhost"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		// TTL of cached table lists in seconds; 0 disables caching.
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	DB struct {
		Postgres struct {
			MaxRetry       int              `envconfig:"MAX_RETRY"       default:"3"`
			RetryWaitTime  int              `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MigrationTable string           `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool             `envconfig:"AUTO_MIGRATE"`
			Prefix         string           `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Reservation struct {
		HoldTTLMinutes         int `envconfig:"HOLD_TTL_MINUTES"          default:"10"`
		SlotStrideMinutes      int `envconfig:"SLOT_STRIDE_MINUTES"       default:"15"`
		ReferenceWindowMinutes int `envconfig:"REFERENCE_WINDOW_MINUTES"  default:"120"`
		DefaultDurationMinutes int `envconfig:"DEFAULT_DURATION_MINUTES"  default:"120"`
		PreBufferMinutes       int `envconfig:"PRE_BUFFER_MINUTES"        default:"0"`
		PostBufferMinutes      int `envconfig:"POST_BUFFER_MINUTES"       default:"0"`
		PacingCap              int `envconfig:"PACING_CAP"                default:"0"`
		Recovery               struct {
			MaxAttempts   int `envconfig:"MAX_ATTEMPTS"   default:"3"`
			BackoffMillis int `envconfig:"BACKOFF_MILLIS" default:"150"`
		} `envconfig:"RECOVERY"`
		Verification struct {
			Enable          bool `envconfig:"ENABLE"           default:"true"`
			LookbackMinutes int  `envconfig:"LOOKBACK_MINUTES" default:"5"`
			TimeoutMillis   int  `envconfig:"TIMEOUT_MILLIS"   default:"500"`
		} `envconfig:"VERIFICATION"`
		LockTTLSeconds       int `envconfig:"LOCK_TTL_SECONDS"       default:"10"`
		PurgeIntervalSeconds int `envconfig:"PURGE_INTERVAL_SECONDS" default:"60"`
	} `envconfig:"RESERVATION"`

	Broker struct {
		Driver string `envconfig:"DRIVER" default:"none"`
		Topics struct {
			ReservationConfirmed string `envconfig:"RESERVATION_CONFIRMED" default:"reservation.confirmed"`
		} `envconfig:"TOPICS"`
		Kafka struct {
			Brokers []string `envconfig:"BROKERS"`
			SASL    struct {
				Username string `envconfig:"USERNAME"`
				Password string `envconfig:"PASSWORD"`
			} `envconfig:"SASL"`
		} `envconfig:"KAFKA"`
		RabbitMQ struct {
			URL string `envconfig:"URL"`
		} `envconfig:"RABBITMQ"`
	} `envconfig:"BROKER"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
	}
}

// load reads .env when present, then the process environment.
var load = sync.OnceValues(func() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, reading the process environment only")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Info().Str("env", cfg.Server.Env).Msg("configuration loaded")

	return &cfg, nil
})

// Init loads the configuration once and reports any environment error.
func Init() error {
	_, err := load()

	return err
}

// Get returns the process configuration and exits when it cannot be loaded.
func Get() *Config {
	cfg, err := load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize configuration")
	}

	return cfg
}
