package model_test

import (
	"tablebook/internal/domains/idempotency/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmRequest struct {
	HoldID string `json:"hold_id"`
	Email  string `json:"email"`
}

func TestFingerprint(t *testing.T) {
	first, err := model.Fingerprint(confirmRequest{HoldID: "h-1", Email: "ada@example.com"})
	require.NoError(t, err)

	again, err := model.Fingerprint(confirmRequest{HoldID: "h-1", Email: "ada@example.com"})
	require.NoError(t, err)

	other, err := model.Fingerprint(confirmRequest{HoldID: "h-2", Email: "ada@example.com"})
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)

	_, err = model.Fingerprint(func() {})
	assert.Error(t, err)
}

func TestRecord_Found(t *testing.T) {
	assert.False(t, model.Record{}.Found())
	assert.True(t, model.Record{TenantID: "tenant-1", Key: "k-1"}.Found())
}
