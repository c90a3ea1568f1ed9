package repository

import (
	"fmt"
	"reflect"
	"strings"
	"tablebook/shared/dto"
)

// columnsOf lists the db tags of T in declaration order, descending into
// embedded structs such as model.Metadata.
func columnsOf(reflectType reflect.Type) []string {
	columns := []string{}

	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOf(field.Type)...)

			continue
		}

		tag, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		if tag == "" || tag == "-" {
			continue
		}

		columns = append(columns, tag)
	}

	return columns
}

func insertQuery(table string, columns []string, conflictColumns []string) string {
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	if len(conflictColumns) > 0 {
		query += fmt.Sprintf(" ON CONFLICT (%s) DO NOTHING", strings.Join(conflictColumns, ", "))
	}

	return query
}

// whereClause renders filter as a WHERE clause, or "" when it has no predicates.
func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

// selectQuery renders a SELECT over all columns of table, adding ORDER BY and
// LIMIT/OFFSET from params. Paging args are bound into args.
func selectQuery(table string, columns []string, where string, params dto.QueryParams, args map[string]any) string {
	var query strings.Builder

	fmt.Fprintf(&query, "SELECT %s FROM %s%s", strings.Join(columns, ", "), table, where)

	if params.SortBy != "" {
		fmt.Fprintf(&query, " ORDER BY %s %s", params.SortBy, sortDir(params.SortDir))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		query.WriteString(" LIMIT :limit")

		if params.Page > 1 {
			args["offset"] = (params.Page - 1) * params.Limit
			query.WriteString(" OFFSET :offset")
		}
	}

	return query.String()
}

func sortDir(dir string) string {
	if strings.EqualFold(dir, dto.SortDirDesc) {
		return dto.SortDirDesc
	}

	return dto.SortDirAsc
}
