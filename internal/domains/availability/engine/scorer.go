package engine

import (
	"slices"
	"time"
)

const (
	maxScore          = 100.0
	underUseThreshold = 50.0
	crowdingThreshold = 90.0
	underUsePenalty   = 2.0
	crowdingPenalty   = 3.0
	percentMultiplier = 100.0
)

// Score rates how well a table of the given capacity fits partySize, 0 to 100.
// Parties using less than half the seats or more than 90% of them lose points.
func Score(capacity, partySize int) float64 {
	if capacity <= 0 {
		return 0
	}

	utilization := float64(partySize) / float64(capacity) * percentMultiplier
	score := maxScore

	if utilization < underUseThreshold {
		score -= (underUseThreshold - utilization) * underUsePenalty
	}

	if utilization > crowdingThreshold {
		score -= (utilization - crowdingThreshold) * crowdingPenalty
	}

	return min(max(score, 0), maxScore)
}

// Recommendation is a table ranked for a party.
type Recommendation struct {
	Table Table
	Score float64
}

// Recommend ranks the tables that seat partySize and have no booking of their
// own overlapping a slot at start. Equal scores keep input order.
func Recommend(tables []Table, bookings []Booking, partySize int, start time.Time, rules Rules) []Recommendation {
	busy := map[string]bool{}

	for _, booking := range bookings {
		if booking.TableID != "" && Conflicts(start, booking, rules) {
			busy[booking.TableID] = true
		}
	}

	recommendations := []Recommendation{}

	for _, table := range FilterByCapacity(tables, partySize) {
		if busy[table.ID] {
			continue
		}

		recommendations = append(recommendations, Recommendation{Table: table, Score: Score(table.Capacity, partySize)})
	}

	slices.SortStableFunc(recommendations, func(a, b Recommendation) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return recommendations
}
