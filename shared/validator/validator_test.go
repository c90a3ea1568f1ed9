package validator_test

import (
	"tablebook/shared/validator"
	"testing"

	"github.com/stretchr/testify/assert"
)

type windowRequest struct {
	Date     string `json:"date"      validate:"required,day"`
	Start    string `json:"start"     validate:"required,clock"`
	End      string `json:"end"       validate:"required,clock"`
	Timezone string `json:"timezone"  validate:"omitempty,timezone"`
	Party    int    `json:"party_size" validate:"required,gt=0"`
	Email    string `json:"email"     validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	valid := windowRequest{Date: "2025-06-01", Start: "17:00", End: "22:00", Timezone: "Europe/Paris", Party: 2}

	tests := []struct {
		name        string
		mutate      func(r *windowRequest)
		expectError string
	}{
		{name: "valid request", mutate: func(_ *windowRequest) {}},
		{name: "end of day marker", mutate: func(r *windowRequest) { r.End = "24:00" }},
		{name: "bad clock", mutate: func(r *windowRequest) { r.Start = "5pm" }, expectError: "start must be a clock time formatted as HH:MM"},
		{name: "bad day", mutate: func(r *windowRequest) { r.Date = "01/06/2025" }, expectError: "date must be a date formatted as YYYY-MM-DD"},
		{name: "bad timezone", mutate: func(r *windowRequest) { r.Timezone = "Nowhere/Land" }, expectError: "timezone must be an IANA timezone name"},
		{name: "zero party", mutate: func(r *windowRequest) { r.Party = 0 }, expectError: "party_size is required"},
		{name: "negative party", mutate: func(r *windowRequest) { r.Party = -2 }, expectError: "party_size must be greater than 0"},
		{name: "bad email", mutate: func(r *windowRequest) { r.Email = "nope" }, expectError: "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.expectError == "" {
				assert.NoError(t, err)

				return
			}

			assert.EqualError(t, err, tt.expectError)
		})
	}
}

func TestValidateJSON_Rejects(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{name: "valid JSON", jsonBody: `{"date":"2025-06-01","start":"17:00","end":"22:00","party_size":4}`},
		{name: "invalid field", jsonBody: `{"date":"2025-06-01","start":"17:00","end":"22:00","party_size":0}`, expectError: true},
		{name: "malformed JSON", jsonBody: `{"date":`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data windowRequest

			err := validator.ValidateJSON([]byte(tt.jsonBody), &data)

			assert.Equal(t, tt.expectError, err != nil, "unexpected result: %v", err)
		})
	}
}

func TestValidateJSON(t *testing.T) {
	var data windowRequest

	err := validator.ValidateJSON([]byte(`{"date":"2025-06-01","start":"09:00","end":"11:30","party_size":3}`), &data)

	assert.NoError(t, err)
	assert.Equal(t, 3, data.Party)
}

func TestValidateStruct_ReportsEveryField(t *testing.T) {
	err := validator.ValidateStruct(&windowRequest{Date: "2025-06-01", Start: "noon", End: "22:00", Party: 0})

	assert.EqualError(t, err, "start must be a clock time formatted as HH:MM; party_size is required")
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("18:45", "clock"))
	assert.Error(t, validator.ValidateVar("25:00", "clock"))
	assert.NoError(t, validator.ValidateVar("test@example.com", "email"))
	assert.Error(t, validator.ValidateVar("", "required"))
}
