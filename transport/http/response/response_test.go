package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/transport/http/response"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithJSON_RawPayloadIsWrittenVerbatim(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusOK, json.RawMessage(`{"success":true,"reservation_id":"b-1"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Equal(t, `{"data":{"success":true,"reservation_id":"b-1"}}`, rec.Body.String())
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "failure with reason",
			err:      failure.ErrHoldNotFound,
			wantCode: http.StatusNotFound,
			wantBody: `{"error":"hold not found or expired","reason":"HOLD_NOT_FOUND"}`,
		},
		{
			name:     "wrapped failure",
			err:      errors.Join(errors.New("context"), failure.ErrSlotTaken),
			wantCode: http.StatusConflict,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestWithRequestLimitExceeded(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithRequestLimitExceeded(rec)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"message":"REQUEST LIMIT EXCEEDED"}`, rec.Body.String())
}
