package helper_test

import (
	"net/url"
	"tablebook/config"
	"tablebook/helper"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Username = "postgres"
	cfg.DB.Postgres.Write.Password = "secret"
	cfg.DB.Postgres.Write.Name = "tablebook"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	parsed, err := url.Parse(helper.DatabaseURL(cfg))
	require.NoError(t, err)

	assert.Equal(t, "localhost:5432", parsed.Host)
	assert.Equal(t, "/test_tablebook", parsed.Path)
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))

	cfg.DB.Postgres.MigrationTable = "tablebook_migrations"

	parsed, err = url.Parse(helper.DatabaseURL(cfg))
	require.NoError(t, err)

	assert.Equal(t, "tablebook_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestRunner_UnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, "sideways")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}
