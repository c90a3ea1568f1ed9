package response

import (
	"encoding/json"
	"net/http"
	"tablebook/shared/constant"
	"tablebook/shared/failure"
	"tablebook/shared/logger"
)

// Body is the envelope of every response: data on success, error and reason
// on failure, message for plain notices.
type Body struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// WithMessage sends a plain notice.
func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Body{Message: message})
}

// WithJSON sends payload under "data". A json.RawMessage payload is written
// as is, so stored results replay byte for byte.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Body{Data: payload})
}

// WithError maps err to its status code and machine-readable reason.
func WithError(writer http.ResponseWriter, err error) {
	write(writer, failure.GetCode(err), Body{Error: err.Error(), Reason: failure.GetReason(err)})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithNotFound(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func WithMethodNotAllowed(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}

func write(writer http.ResponseWriter, code int, body Body) {
	encoded, err := json.Marshal(body)
	if err != nil {
		logger.ErrorWithStack(err)

		code = http.StatusInternalServerError
		encoded = []byte(`{"error":"failed to encode response"}`)
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err := writer.Write(encoded); err != nil {
		logger.ErrorWithStack(err)
	}
}
