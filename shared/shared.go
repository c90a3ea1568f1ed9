package shared

import (
	"errors"
	"strings"
	"tablebook/shared/constant"
	"tablebook/shared/dto"

	"github.com/lib/pq"
)

const cacheKeySeparator = ":"

// BuildCacheKey joins a prefix and its parts into a namespaced cache key.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// FilterByTenantAndID scopes an id lookup to a single tenant.
func FilterByTenantAndID(tenantID, id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    constant.FieldTenantID,
				Value:    tenantID,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// IsPqError reports whether err wraps a postgres error with the given SQLSTATE code.
func IsPqError(err error, code string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return string(pqErr.Code) == code
}
