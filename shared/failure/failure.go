package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that knows its HTTP status. Reason is the
// machine-readable kind clients branch on; it is empty for generic failures.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

const (
	ReasonHoldInvalid         = "HOLD_INVALID"
	ReasonHoldFailed          = "HOLD_FAILED"
	ReasonHoldNotFound        = "HOLD_NOT_FOUND"
	ReasonConfirmationInvalid = "CONFIRMATION_INVALID"
	ReasonBookingNotCreated   = "BOOKING_NOT_CREATED"
	ReasonSlotTaken           = "SLOT_TAKEN"
	ReasonConfirmInProgress   = "CONFIRM_IN_PROGRESS"
)

var (
	ErrHoldInvalid         = New(http.StatusBadRequest, ReasonHoldInvalid, "invalid hold request")
	ErrHoldFailed          = New(http.StatusInternalServerError, ReasonHoldFailed, "failed to create hold")
	ErrHoldNotFound        = New(http.StatusNotFound, ReasonHoldNotFound, "hold not found or expired")
	ErrConfirmationInvalid = New(http.StatusBadRequest, ReasonConfirmationInvalid, "invalid confirmation request")
	ErrBookingNotCreated   = New(http.StatusInternalServerError, ReasonBookingNotCreated, "booking could not be verified after creation")
	ErrSlotTaken           = New(http.StatusConflict, ReasonSlotTaken, "slot is no longer available")
	ErrConfirmInProgress   = New(http.StatusConflict, ReasonConfirmInProgress, "a confirm with this idempotency key is in progress")
)

func New(code int, reason, msg string) *Failure {
	return &Failure{Code: code, Reason: reason, Message: msg}
}

func (e *Failure) Error() string {
	return e.Message
}

// Is matches failures of the same kind: by Reason when either side has one,
// otherwise by code and message.
func (e *Failure) Is(target error) bool {
	var other *Failure
	if !errors.As(target, &other) {
		return false
	}

	if e.Reason != "" || other.Reason != "" {
		return e.Reason == other.Reason
	}

	return e.Code == other.Code && e.Message == other.Message
}

// WithMessage returns a copy of e carrying msg.
func (e *Failure) WithMessage(msg string) error {
	return New(e.Code, e.Reason, msg)
}

// BadRequest wraps err as a 400. A nil err stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return New(http.StatusBadRequest, "", err.Error())
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, "", msg)
}

// GetCode returns the status carried by err, or 500 for any other error.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetReason returns the reason carried by err, if any.
func GetReason(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Reason
	}

	return ""
}
