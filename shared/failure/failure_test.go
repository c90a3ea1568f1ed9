package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"tablebook/shared/failure"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBadRequest(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))

	err := failure.BadRequest(errors.New("validation failed"))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Empty(t, failure.GetReason(err))
	assert.EqualError(t, err, "validation failed")
}

func TestFailure_Is(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "same reason different message",
			err:      failure.New(http.StatusNotFound, failure.ReasonHoldNotFound, "hold abc not found"),
			expected: true,
		},
		{
			name:     "wrapped same reason",
			err:      fmt.Errorf("confirm: %w", failure.New(http.StatusNotFound, failure.ReasonHoldNotFound, "gone")),
			expected: true,
		},
		{
			name:     "different reason",
			err:      failure.New(http.StatusNotFound, failure.ReasonBookingNotCreated, "gone"),
			expected: false,
		},
		{
			name:     "failure without reason",
			err:      failure.New(http.StatusNotFound, "", "hold not found or expired"),
			expected: false,
		},
		{
			name:     "regular error",
			err:      errors.New("hold not found or expired"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.Is(tt.err, failure.ErrHoldNotFound))
		})
	}
}

func TestFailure_Is_WithoutReason(t *testing.T) {
	err := fmt.Errorf("decode: %w", failure.BadRequestFromString("bad body"))

	assert.ErrorIs(t, err, failure.BadRequestFromString("bad body"))
	assert.NotErrorIs(t, err, failure.BadRequestFromString("other"))
}

func TestGetCodeAndReason(t *testing.T) {
	tests := []struct {
		name           string
		input          error
		expectedCode   int
		expectedReason string
	}{
		{
			name:         "failure without reason",
			input:        failure.BadRequestFromString("test"),
			expectedCode: http.StatusBadRequest,
		},
		{
			name:           "wrapped failure with reason",
			input:          fmt.Errorf("wrapped: %w", failure.ErrSlotTaken),
			expectedCode:   http.StatusConflict,
			expectedReason: failure.ReasonSlotTaken,
		},
		{
			name:         "regular error",
			input:        errors.New("regular error"),
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "nil error",
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, failure.GetCode(tt.input))
			assert.Equal(t, tt.expectedReason, failure.GetReason(tt.input))
		})
	}
}

func TestFailure_WithMessage(t *testing.T) {
	err := failure.ErrHoldNotFound.WithMessage("hold h-1 not found")

	assert.ErrorIs(t, err, failure.ErrHoldNotFound)
	assert.NotErrorIs(t, err, failure.ErrSlotTaken)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	assert.Equal(t, failure.ReasonHoldNotFound, failure.GetReason(fmt.Errorf("confirm: %w", err)))
	assert.EqualError(t, err, "hold h-1 not found")
	assert.Equal(t, "hold not found or expired", failure.ErrHoldNotFound.Message)
}
