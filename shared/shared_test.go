package shared_test

import (
	"errors"
	"fmt"
	"tablebook/shared"
	"tablebook/shared/constant"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		parts    []string
		expected string
	}{
		{name: "prefix only", prefix: "tables", expected: "tables"},
		{name: "single part", prefix: "tables", parts: []string{"tenant-1"}, expected: "tables:tenant-1"},
		{name: "many parts", prefix: "limiter", parts: []string{"10.0.0.1", "curl"}, expected: "limiter:10.0.0.1:curl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.BuildCacheKey(tt.prefix, tt.parts...))
		})
	}
}

func TestFilterByTenantAndID(t *testing.T) {
	group := shared.FilterByTenantAndID("tenant-1", "hold-1", "id", "booking_holds")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(booking_holds.tenant_id = :tenant_id AND booking_holds.id = :id)", where)
	assert.Equal(t, map[string]any{"tenant_id": "tenant-1", "id": "hold-1"}, args)
}

func TestIsPqError(t *testing.T) {
	violation := &pq.Error{Code: constant.PqErrorCodeUniqueViolation}

	assert.True(t, shared.IsPqError(violation, constant.PqErrorCodeUniqueViolation))
	assert.True(t, shared.IsPqError(fmt.Errorf("insert: %w", violation), constant.PqErrorCodeUniqueViolation))
	assert.False(t, shared.IsPqError(violation, constant.PqErrorCodeInsufficientPrivilege))
	assert.False(t, shared.IsPqError(errors.New("boom"), constant.PqErrorCodeUniqueViolation))
	assert.False(t, shared.IsPqError(nil, constant.PqErrorCodeUniqueViolation))
}
