package dto

import (
	"encoding/json"
	"fmt"
	bookingModel "tablebook/internal/domains/booking/model"
	holdModel "tablebook/internal/domains/hold/model"
	"tablebook/shared/constant"
	"time"

	"github.com/google/uuid"
)

type GuestDetails struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// ConfirmRequest turns a hold into a booking. The guest email is checked by
// the service so a missing contact maps to CONFIRMATION_INVALID.
type ConfirmRequest struct {
	TenantID       string       `json:"tenant_id"       validate:"required"`
	HoldID         string       `json:"hold_id"         validate:"required"`
	GuestDetails   GuestDetails `json:"guest_details"`
	TableID        string       `json:"table_id,omitempty"`
	IdempotencyKey string       `json:"idempotency_key" validate:"required,max=255"`
	Timezone       string       `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// ToBooking builds the pending booking for hold.
func (r *ConfirmRequest) ToBooking(hold holdModel.Hold, tableID string, now time.Time) bookingModel.Booking {
	holdID := hold.ID
	booking := bookingModel.Booking{
		ID:              uuid.NewString(),
		TenantID:        r.TenantID,
		HoldID:          &holdID,
		StartTime:       hold.StartTime.UTC(),
		DurationMinutes: hold.DurationMinutes,
		PartySize:       hold.PartySize,
		Status:          bookingModel.StatusPending,
		GuestFirstName:  r.GuestDetails.FirstName,
		GuestLastName:   r.GuestDetails.LastName,
		GuestEmail:      r.GuestDetails.Email,
		GuestPhone:      r.GuestDetails.Phone,
		SpecialRequests: r.GuestDetails.SpecialRequests,
	}

	booking.CreatedAt = now
	booking.ModifiedAt = now

	if tableID != constant.Empty {
		booking.TableID = &tableID
	}

	return booking
}

type Summary struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	PartySize int    `json:"party_size"`
	TableInfo string `json:"table_info"`
}

type ConfirmResponse struct {
	Success            bool     `json:"success"`
	ReservationID      string   `json:"reservation_id"`
	ConfirmationNumber string   `json:"confirmation_number"`
	Status             string   `json:"status"`
	Summary            Summary  `json:"summary"`
	Warnings           []string `json:"warnings,omitempty"`
}

// FromModel fills the response from booking, rendering the slot in loc.
func (r *ConfirmResponse) FromModel(booking bookingModel.Booking, loc *time.Location, tableInfo string) {
	local := booking.StartTime.In(loc)

	r.Success = true
	r.ReservationID = booking.ID
	r.ConfirmationNumber = booking.ConfirmationNumber()
	r.Status = booking.Status
	r.Summary = Summary{
		Date:      local.Format(constant.DayFormat),
		Time:      local.Format(constant.ClockFormat),
		PartySize: booking.PartySize,
		TableInfo: tableInfo,
	}
}

// TableInfo describes a table for the guest, e.g. "Booth (4 seats)".
func TableInfo(name string, capacity int) string {
	if name == constant.Empty {
		return constant.Empty
	}

	if capacity <= 0 {
		return name
	}

	return fmt.Sprintf("%s (%d seats)", name, capacity)
}

// ConfirmResult carries the stored confirm payload. Payload is written to the
// client as is, so a replay returns the same bytes as the first call.
type ConfirmResult struct {
	Payload   json.RawMessage
	Replayed  bool
	Recovered bool
}

// ConfirmedEvent is published once a booking has been confirmed.
type ConfirmedEvent struct {
	TenantID           string    `json:"tenant_id"`
	ReservationID      string    `json:"reservation_id"`
	ConfirmationNumber string    `json:"confirmation_number"`
	HoldID             string    `json:"hold_id"`
	TableID            string    `json:"table_id,omitempty"`
	StartTime          time.Time `json:"start_time"`
	DurationMinutes    int       `json:"duration_minutes"`
	PartySize          int       `json:"party_size"`
	Status             string    `json:"status"`
	GuestEmail         string    `json:"guest_email"`
}

func (e *ConfirmedEvent) FromModel(booking bookingModel.Booking) {
	e.TenantID = booking.TenantID
	e.ReservationID = booking.ID
	e.ConfirmationNumber = booking.ConfirmationNumber()
	e.TableID = booking.TableIDValue()
	e.StartTime = booking.StartTime.UTC()
	e.DurationMinutes = booking.DurationMinutes
	e.PartySize = booking.PartySize
	e.Status = booking.Status
	e.GuestEmail = booking.GuestEmail

	if booking.HoldID != nil {
		e.HoldID = *booking.HoldID
	}
}
