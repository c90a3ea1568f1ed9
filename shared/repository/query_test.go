package repository

import (
	"reflect"
	"tablebook/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type metadata struct {
	CreatedAt time.Time `db:"created_at"`
}

type row struct {
	ID      string `db:"id"`
	Name    string `db:"name,omitempty"`
	Ignored string `db:"-"`
	Scratch string
	metadata
}

func TestColumnsOf(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "created_at"}, columnsOf(reflect.TypeFor[row]()))
}

func TestInsertQuery(t *testing.T) {
	tests := []struct {
		name     string
		conflict []string
		expected string
	}{
		{
			name:     "plain insert",
			expected: "INSERT INTO rows (id, name) VALUES (:id, :name)",
		},
		{
			name:     "ignore on conflict",
			conflict: []string{"tenant_id", "key"},
			expected: "INSERT INTO rows (id, name) VALUES (:id, :name) ON CONFLICT (tenant_id, key) DO NOTHING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, insertQuery("rows", []string{"id", "name"}, tt.conflict))
		})
	}
}

func TestSelectQuery(t *testing.T) {
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "tenant_id", Value: "t1", Operator: dto.FilterOperatorEq},
		},
	}

	tests := []struct {
		name         string
		filter       dto.FilterGroup
		params       dto.QueryParams
		expected     string
		expectedArgs map[string]any
	}{
		{
			name:         "no filter",
			expected:     "SELECT id, name FROM rows",
			expectedArgs: map[string]any{},
		},
		{
			name:         "filtered and sorted",
			filter:       filter,
			params:       dto.QueryParams{SortBy: "name", SortDir: "desc"},
			expected:     "SELECT id, name FROM rows WHERE (tenant_id = :tenant_id) ORDER BY name DESC",
			expectedArgs: map[string]any{"tenant_id": "t1"},
		},
		{
			name:         "unknown sort direction falls back to ascending",
			params:       dto.QueryParams{SortBy: "name", SortDir: "sideways"},
			expected:     "SELECT id, name FROM rows ORDER BY name ASC",
			expectedArgs: map[string]any{},
		},
		{
			name:         "first page has no offset",
			params:       dto.QueryParams{Page: 1, Limit: 5},
			expected:     "SELECT id, name FROM rows LIMIT :limit",
			expectedArgs: map[string]any{"limit": 5},
		},
		{
			name:         "later page is offset",
			params:       dto.QueryParams{Page: 3, Limit: 5},
			expected:     "SELECT id, name FROM rows LIMIT :limit OFFSET :offset",
			expectedArgs: map[string]any{"limit": 5, "offset": 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := whereClause(tt.filter)
			query := selectQuery("rows", []string{"id", "name"}, where, tt.params, args)

			assert.Equal(t, tt.expected, query)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
