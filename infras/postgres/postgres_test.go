package postgres

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_DSN(t *testing.T) {
	e := endpoint{
		Host:     "db.internal",
		Port:     "5432",
		Username: "booker",
		Password: "p@ss:word",
		Name:     "reservations",
	}

	parsed, err := url.Parse(e.DSN("staging_"))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "db.internal:5432", parsed.Host)
	assert.Equal(t, "/staging_reservations", parsed.Path)
	assert.Equal(t, "booker", parsed.User.Username())
	assert.Equal(t, "p@ss:word", password)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "UTC", parsed.Query().Get("timezone"))

	e.SSLMode = "require"
	e.Timezone = "Asia/Jakarta"

	parsed, err = url.Parse(e.DSN(""))
	require.NoError(t, err)

	assert.Equal(t, "/reservations", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "Asia/Jakarta", parsed.Query().Get("timezone"))
}
