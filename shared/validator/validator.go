package validator

import (
	"encoding/json"
	"fmt"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"time"

	val "github.com/go-playground/validator/v10"
)

var validate = val.New(val.WithRequiredStructEnabled())

// rules are the tags added on top of the validator built-ins.
var rules = map[string]val.Func{
	// "HH:MM", including the end-of-day marker "24:00".
	"clock": func(fl val.FieldLevel) bool {
		value := fl.Field().String()
		if value == "24:00" {
			return true
		}

		return parses(constant.ClockFormat, value)
	},
	"day": func(fl val.FieldLevel) bool {
		return parses(constant.DayFormat, fl.Field().String())
	},
	"timezone": func(fl val.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())

		return err == nil
	},
}

func parses(layout, value string) bool {
	_, err := time.Parse(layout, value)

	return err == nil
}

func init() {
	validate.RegisterTagNameFunc(jsonName)

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// ValidateJSON decodes raw into data and validates the result. Any failure
// is a 400.
func ValidateJSON[T any](raw json.RawMessage, data *T) error {
	if err := json.Unmarshal(raw, data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateVar checks a single value against tag.
func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
