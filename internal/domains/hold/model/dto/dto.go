package dto

import (
	"tablebook/internal/domains/hold/model"
	"tablebook/shared/constant"
	"time"

	"github.com/google/uuid"
)

// Slot is the slot the client picked from an availability response.
type Slot struct {
	Time            string `json:"time"`
	AvailableTables int    `json:"available_tables"`
}

type CreateHoldRequest struct {
	TenantID        string `json:"tenant_id"        validate:"required"`
	PartySize       int    `json:"party_size"`
	Slot            Slot   `json:"slot"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gt=0,lte=720"`
	TableID         string `json:"table_id"`
}

// StartTime parses the slot time as an RFC 3339 instant in UTC.
func (r *CreateHoldRequest) StartTime() (time.Time, error) {
	start, err := time.Parse(time.RFC3339, r.Slot.Time)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck
	}

	return start.UTC(), nil
}

func (r *CreateHoldRequest) ToModel(start, now time.Time, duration, ttl time.Duration) model.Hold {
	hold := model.Hold{
		ID:              uuid.NewString(),
		TenantID:        r.TenantID,
		SessionID:       uuid.NewString(),
		StartTime:       start,
		DurationMinutes: int(duration / time.Minute),
		PartySize:       r.PartySize,
		ExpiresAt:       now.Add(ttl),
		CreatedAt:       now,
	}

	if r.TableID != constant.Empty {
		tableID := r.TableID
		hold.TableID = &tableID
	}

	return hold
}

type HoldResponse struct {
	Success   bool   `json:"success"`
	HoldID    string `json:"hold_id"`
	SessionID string `json:"session_id"`
	ExpiresAt string `json:"expires_at"`
}

func (r *HoldResponse) FromModel(hold model.Hold) {
	r.Success = true
	r.HoldID = hold.ID
	r.SessionID = hold.SessionID
	r.ExpiresAt = hold.ExpiresAt.UTC().Format(constant.SlotTimeFormat)
}
