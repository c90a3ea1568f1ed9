package dto

import (
	"tablebook/internal/domains/availability/engine"
	"tablebook/shared/constant"
)

type Window struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end"   validate:"required,clock"`
}

// SlotsRequest asks for the bookable slots of one day. The optional buffer and
// pacing fields override the configured defaults for this query only.
type SlotsRequest struct {
	TenantID          string `json:"tenant_id"           validate:"required"`
	PartySize         int    `json:"party_size"          validate:"required,gt=0"`
	Date              string `json:"date"                validate:"required,day"`
	Window            Window `json:"window"              validate:"required"`
	Timezone          string `json:"timezone"            validate:"omitempty,timezone"`
	PreBufferMinutes  *int   `json:"pre_buffer_minutes"  validate:"omitempty,gte=0"`
	PostBufferMinutes *int   `json:"post_buffer_minutes" validate:"omitempty,gte=0"`
	PacingCap         *int   `json:"pacing_cap"          validate:"omitempty,gte=0"`
}

type Slot struct {
	Time            string `json:"time"`
	AvailableTables int    `json:"available_tables"`
}

type SlotsResponse struct {
	Slots    []Slot `json:"slots"`
	Timezone string `json:"timezone,omitempty"`
}

func (r *SlotsResponse) FromEngine(slots []engine.Slot) {
	r.Slots = make([]Slot, 0, len(slots))

	for _, slot := range slots {
		r.Slots = append(r.Slots, Slot{
			Time:            slot.Time.UTC().Format(constant.SlotTimeFormat),
			AvailableTables: slot.AvailableTables,
		})
	}
}

type RecommendRequest struct {
	TenantID  string `json:"tenant_id"  validate:"required"`
	PartySize int    `json:"party_size" validate:"required,gt=0"`
	Time      string `json:"time"       validate:"required"`
}

type Recommendation struct {
	TableID  string  `json:"table_id"`
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Score    float64 `json:"score"`
}

type RecommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

func (r *RecommendResponse) FromEngine(recommendations []engine.Recommendation) {
	r.Recommendations = make([]Recommendation, 0, len(recommendations))

	for _, rec := range recommendations {
		r.Recommendations = append(r.Recommendations, Recommendation{
			TableID:  rec.Table.ID,
			Name:     rec.Table.Name,
			Capacity: rec.Table.Capacity,
			Score:    rec.Score,
		})
	}
}

// Assessment is the live capacity of one slot, read from the primary.
type Assessment struct {
	Remaining       int
	Recommendations []engine.Recommendation
}

// Offers reports whether tableID is among the free, suitable tables.
func (a Assessment) Offers(tableID string) bool {
	for _, rec := range a.Recommendations {
		if rec.Table.ID == tableID {
			return true
		}
	}

	return false
}

// Best returns the highest ranked table id, or "" when none is free.
func (a Assessment) Best() string {
	if len(a.Recommendations) == 0 {
		return ""
	}

	return a.Recommendations[0].Table.ID
}
