package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"gt":       "{field} must be greater than {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be at most {param} long",
	"min":      "{field} must be at least {param} long",
	"email":    "{field} must be a valid email address",
	"uuid":     "{field} must be a valid UUID",
	"clock":    "{field} must be a clock time formatted as HH:MM",
	"day":      "{field} must be a date formatted as YYYY-MM-DD",
	"timezone": "{field} must be an IANA timezone name",
	"datetime": "{field} must match the layout {param}",
}

// jsonName reports fields by their wire name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// message renders every failed rule, in field order, joined by "; ".
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	parts := make([]string, 0, len(valErrors))

	for _, valErr := range valErrors {
		template, ok := messages[valErr.Tag()]
		if !ok {
			parts = append(parts, valErr.Error())

			continue
		}

		replacer := strings.NewReplacer("{field}", valErr.Field(), "{param}", valErr.Param())
		parts = append(parts, replacer.Replace(template))
	}

	return strings.Join(parts, "; ")
}
