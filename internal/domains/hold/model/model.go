package model

import "time"

const (
	TableName  = "booking_holds"
	EntityName = "hold"

	FieldID        = "id"
	FieldTenantID  = "tenant_id"
	FieldExpiresAt = "expires_at"
)

// Hold is a short-lived tentative claim on a slot. It is never updated: it is
// either consumed by a confirm or expires.
type Hold struct {
	ID              string    `db:"id"               json:"id"`
	TenantID        string    `db:"tenant_id"        json:"tenant_id"`
	SessionID       string    `db:"session_id"       json:"session_id"`
	StartTime       time.Time `db:"start_time"       json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	PartySize       int       `db:"party_size"       json:"party_size"`
	TableID         *string   `db:"table_id"         json:"table_id,omitempty"`
	ExpiresAt       time.Time `db:"expires_at"       json:"expires_at"`
	CreatedAt       time.Time `db:"created_at"       json:"created_at"`
}

// ExpiredAt reports whether the hold can no longer be confirmed at now.
func (h Hold) ExpiredAt(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}

func (h Hold) TableIDValue() string {
	if h.TableID == nil {
		return ""
	}

	return *h.TableID
}
