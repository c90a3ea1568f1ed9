package engine

import (
	"fmt"
	"time"
)

const (
	DefaultStrideMinutes          = 15
	DefaultReferenceWindowMinutes = 120
	minutesInDay                  = 24 * 60
)

// Table is a physical table able to seat up to Capacity guests.
type Table struct {
	ID       string
	Name     string
	Capacity int
}

// Booking is an existing reservation occupying [Start, Start+DurationMinutes).
type Booking struct {
	ID              string
	TableID         string
	Start           time.Time
	DurationMinutes int
}

// Rules carries the turnover and pacing settings for one calculation.
// Zero stride and reference window fall back to the defaults; a zero
// PacingCap means no cap.
type Rules struct {
	PreBufferMinutes       int
	PostBufferMinutes      int
	PacingCap              int
	ReferenceWindowMinutes int
	StrideMinutes          int
}

func (r Rules) referenceWindow() time.Duration {
	if r.ReferenceWindowMinutes <= 0 {
		return DefaultReferenceWindowMinutes * time.Minute
	}

	return time.Duration(r.ReferenceWindowMinutes) * time.Minute
}

func (r Rules) stride() int {
	if r.StrideMinutes <= 0 {
		return DefaultStrideMinutes
	}

	return r.StrideMinutes
}

func (r Rules) preBuffer() time.Duration {
	return time.Duration(max(r.PreBufferMinutes, 0)) * time.Minute
}

func (r Rules) postBuffer() time.Duration {
	return time.Duration(max(r.PostBufferMinutes, 0)) * time.Minute
}

// Clock is a wall-clock time of day. 24:00 marks the end of the day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM"; "24:00" is accepted as end of day.
func ParseClock(value string) (Clock, error) {
	var clock Clock

	if _, err := fmt.Sscanf(value, "%d:%d", &clock.Hour, &clock.Minute); err != nil {
		return Clock{}, fmt.Errorf("invalid clock %q: %w", value, err)
	}

	if clock.Minute < 0 || clock.Minute > 59 || clock.Hour < 0 || clock.Hour > 24 || (clock.Hour == 24 && clock.Minute != 0) {
		return Clock{}, fmt.Errorf("invalid clock %q: out of range", value)
	}

	return clock, nil
}

func (c Clock) totalMinutes() int {
	return c.Hour*60 + c.Minute
}

// Window is the span of the day in which slots may start, End exclusive.
type Window struct {
	Start Clock
	End   Clock
}

// Slot is a bookable start time with the number of tables still free.
type Slot struct {
	Time            time.Time
	AvailableTables int
}

// Query is the full input of an availability calculation. Date supplies the
// calendar day; the window clock components are applied to it in UTC.
type Query struct {
	Tables    []Table
	Bookings  []Booking
	PartySize int
	Date      time.Time
	Window    Window
	Rules     Rules
	Now       time.Time
}

// FilterByCapacity keeps the tables that can seat partySize, in input order.
func FilterByCapacity(tables []Table, partySize int) []Table {
	suitable := make([]Table, 0, len(tables))

	for _, table := range tables {
		if table.Capacity >= partySize {
			suitable = append(suitable, table)
		}
	}

	return suitable
}

// Conflicts reports whether a slot starting at slotStart overlaps booking once
// buffers are applied. The post buffer extends both the booking end and the
// slot end; the pre buffer only moves the slot start.
func Conflicts(slotStart time.Time, booking Booking, rules Rules) bool {
	bookingEnd := booking.Start.Add(time.Duration(booking.DurationMinutes)*time.Minute + rules.postBuffer())
	bufferedStart := slotStart.Add(-rules.preBuffer())
	slotEnd := slotStart.Add(rules.referenceWindow() + rules.postBuffer())

	return bufferedStart.Before(bookingEnd) && slotEnd.After(booking.Start)
}

// ConflictSpan bounds the start times of every booking that can conflict with
// a slot starting at slotStart, given that no booking lasts longer than
// longest. Either of two conflicting starts lies inside the span of the other.
func ConflictSpan(slotStart time.Time, rules Rules, longest time.Duration) (time.Time, time.Time) {
	from := slotStart.Add(-rules.preBuffer() - rules.postBuffer() - max(longest, rules.referenceWindow()))
	to := slotStart.Add(rules.referenceWindow() + rules.postBuffer())

	return from, to
}

// CountConflicts returns how many bookings overlap a slot starting at slotStart.
func CountConflicts(slotStart time.Time, bookings []Booking, rules Rules) int {
	count := 0

	for _, booking := range bookings {
		if Conflicts(slotStart, booking, rules) {
			count++
		}
	}

	return count
}

// Remaining is the number of tables left for a slot given the suitable table
// count and the conflicting booking count, clamped by the pacing cap.
func Remaining(suitable, conflicting, pacingCap int) int {
	available := suitable - conflicting

	if pacingCap > 0 {
		available = min(available, pacingCap-conflicting)
	}

	return max(available, 0)
}

// SlotStarts enumerates candidate start times on date at the stride, from
// window start up to but excluding window end.
func SlotStarts(date time.Time, window Window, strideMinutes int) []time.Time {
	if strideMinutes <= 0 {
		strideMinutes = DefaultStrideMinutes
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := min(window.End.totalMinutes(), minutesInDay)

	starts := []time.Time{}
	for minute := window.Start.totalMinutes(); minute < end; minute += strideMinutes {
		starts = append(starts, day.Add(time.Duration(minute)*time.Minute))
	}

	return starts
}

// AvailableSlots lists the future slots in the window that still have a
// suitable table free.
func AvailableSlots(query Query) []Slot {
	suitable := FilterByCapacity(query.Tables, query.PartySize)
	if len(suitable) == 0 {
		return []Slot{}
	}

	slots := []Slot{}

	for _, start := range SlotStarts(query.Date, query.Window, query.Rules.stride()) {
		if !start.After(query.Now) {
			continue
		}

		conflicting := CountConflicts(start, query.Bookings, query.Rules)

		available := Remaining(len(suitable), conflicting, query.Rules.PacingCap)
		if available > 0 {
			slots = append(slots, Slot{Time: start, AvailableTables: available})
		}
	}

	return slots
}
