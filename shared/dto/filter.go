package dto

import (
	"fmt"
	"maps"
	"reflect"
	"strings"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLess      = "less"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreater   = "greater"
	FilterOperatorGreaterEq = "greater_eq"
	FilterOperatorIn        = "in"
	FilterPlainQuery        = "plain"
	FilterIsNull            = "is_null"
	FilterIsNotNull         = "is_not_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

var comparisons = map[string]string{
	FilterOperatorEq:        "=",
	FilterOperatorNotEq:     "!=",
	FilterOperatorLess:      "<",
	FilterOperatorLessEq:    "<=",
	FilterOperatorGreater:   ">",
	FilterOperatorGreaterEq: ">=",
}

// Filter is one named-parameter predicate for sqlx.Named queries. ArgName
// defaults to Field and must be unique within a query.
type Filter struct {
	ArgName  string
	Field    string
	Value    any
	Operator string
	Table    string
	// Args binds named parameters referenced by a FilterPlainQuery expression.
	Args map[string]any
}

func (f *Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

func (f *Filter) argName() string {
	if f.ArgName == "" {
		return f.Field
	}

	return f.ArgName
}

func (f *Filter) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}

	if op, ok := comparisons[f.Operator]; ok {
		args[f.argName()] = f.Value

		return fmt.Sprintf("%s %s :%s", f.column(), op, f.argName()), args
	}

	switch f.Operator {
	case FilterOperatorIn:
		return f.inClause(args)
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		maps.Copy(args, f.Args)

		return "(" + query + ")", args
	case FilterIsNull:
		return f.column() + " IS NULL", args
	case FilterIsNotNull:
		return f.column() + " IS NOT NULL", args
	default:
		return "", args
	}
}

// inClause expands a slice value into one named parameter per element. An
// empty slice matches nothing.
func (f *Filter) inClause(args map[string]any) (string, map[string]any) {
	val := reflect.ValueOf(f.Value)
	if val.Kind() != reflect.Slice && val.Kind() != reflect.Array {
		args[f.argName()] = f.Value

		return fmt.Sprintf("%s IN (:%s)", f.column(), f.argName()), args
	}

	if val.Len() == 0 {
		return "FALSE", args
	}

	named := make([]string, val.Len())

	for idx := range val.Len() {
		name := fmt.Sprintf("%s_%d", f.argName(), idx)
		args[name] = val.Index(idx).Interface()
		named[idx] = ":" + name
	}

	return fmt.Sprintf("%s IN (%s)", f.column(), strings.Join(named, ", ")), args
}

// FilterGroup joins Filters and nested FilterGroups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

func (f *FilterGroup) GetWhereClause() (string, map[string]any) {
	args := map[string]any{}
	clauses := make([]string, 0, len(f.Filters))

	for _, filter := range f.Filters {
		var (
			where string
			arg   map[string]any
		)

		switch fill := filter.(type) {
		case Filter:
			where, arg = fill.GetWhereClause()
		case FilterGroup:
			where, arg = fill.GetWhereClause()
		default:
			continue
		}

		if where == "" {
			continue
		}

		clauses = append(clauses, where)

		maps.Copy(args, arg)
	}

	if len(clauses) == 0 {
		return "", args
	}

	return "(" + strings.Join(clauses, " "+f.Operator+" ") + ")", args
}
