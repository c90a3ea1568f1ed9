package model

import (
	"strings"
	"tablebook/shared/constant"
	"tablebook/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldTenantID        = "tenant_id"
	FieldTableID         = "table_id"
	FieldHoldID          = "hold_id"
	FieldStartTime       = "start_time"
	FieldDurationMinutes = "duration_minutes"
	FieldPartySize       = "party_size"
	FieldStatus          = "status"
	FieldGuestEmail      = "guest_email"
	FieldCreatedAt       = "created_at"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// LiveStatuses occupy a table and take part in conflict detection.
var LiveStatuses = []string{StatusPending, StatusConfirmed, StatusSeated}

type Booking struct {
	ID              string    `db:"id"               json:"id"`
	TenantID        string    `db:"tenant_id"        json:"tenant_id"`
	TableID         *string   `db:"table_id"         json:"table_id,omitempty"`
	HoldID          *string   `db:"hold_id"          json:"hold_id,omitempty"`
	StartTime       time.Time `db:"start_time"       json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	PartySize       int       `db:"party_size"       json:"party_size"`
	Status          string    `db:"status"           json:"status"`
	GuestFirstName  string    `db:"guest_first_name" json:"guest_first_name"`
	GuestLastName   string    `db:"guest_last_name"  json:"guest_last_name"`
	GuestEmail      string    `db:"guest_email"      json:"guest_email"`
	GuestPhone      string    `db:"guest_phone"      json:"guest_phone"`
	SpecialRequests string    `db:"special_requests" json:"special_requests"`
	model.Metadata
}

// ConfirmationNumber derives a short, stable code from the booking id.
func (b Booking) ConfirmationNumber() string {
	code := strings.ToUpper(strings.ReplaceAll(b.ID, "-", ""))
	if len(code) > constant.DefaultConfirmationNumberLen {
		code = code[:constant.DefaultConfirmationNumberLen]
	}

	return constant.ConfirmationNumberPrefix + code
}

func (b Booking) TableIDValue() string {
	if b.TableID == nil {
		return ""
	}

	return *b.TableID
}
