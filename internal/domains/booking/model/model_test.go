package model_test

import (
	"tablebook/internal/domains/booking/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_ConfirmationNumber(t *testing.T) {
	booking := model.Booking{ID: "3f2a9c1e-77b4-4d0a-9e1f-0c6b2d8e5a11"}

	assert.Equal(t, "TB-3F2A9C1E", booking.ConfirmationNumber())
	assert.Equal(t, booking.ConfirmationNumber(), booking.ConfirmationNumber())
	assert.Equal(t, "TB-AB12", model.Booking{ID: "ab-12"}.ConfirmationNumber())
}

func TestBooking_TableIDValue(t *testing.T) {
	tableID := "t-1"

	assert.Equal(t, "t-1", model.Booking{TableID: &tableID}.TableIDValue())
	assert.Empty(t, model.Booking{}.TableIDValue())
}
