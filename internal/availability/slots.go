package availability

import (
	"fmt"
	"time"

	"github.com/Eursukkul/salon-booking-service/internal/models"
)

const (
	SlotMinutes        = 30
	OpeningHour        = 9
	WeekdayClosingHour = 19
	WeekendClosingHour = 17

	// DefaultDurationMinutes is assumed when a request carries no duration.
	DefaultDurationMinutes = 60
)

const (
	ReasonBooked      = "Already booked"
	ReasonFullyBooked = "No stylist available"
	ReasonPassed      = "Time has passed"
	ReasonAfterClose  = "Runs past closing time"
)

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Popular   bool   `json:"popular,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Interval is a half-open range of minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

func ClosingHour(day time.Time) int {
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return WeekendClosingHour
	}
	return WeekdayClosingHour
}

// CandidateTimes is the 30-minute grid from opening until closing for the given day.
func CandidateTimes(day time.Time) []string {
	var out []string
	for m := OpeningHour * 60; m < ClosingHour(day)*60; m += SlotMinutes {
		out = append(out, FormatClock(m))
	}
	return out
}

// ParseClock converts "HH:MM" (seconds tolerated, as returned by TIME columns) to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) > 5 {
		s = s[:5]
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Query describes whose time is being checked. A nil StylistID means "any available":
// the slot is free while fewer distinct stylists are busy than StylistCount.
type Query struct {
	Day             time.Time
	StylistID       *string
	DurationMinutes int
	StylistCount    int
	Now             time.Time
}

func (q Query) duration() int {
	if q.DurationMinutes <= 0 {
		return DefaultDurationMinutes
	}
	return q.DurationMinutes
}

func (q Query) capacity() int {
	if q.StylistCount < 1 {
		return 1
	}
	return q.StylistCount
}

// BuildSlots marks every candidate slot of q.Day against the booked intervals.
func BuildSlots(q Query, booked []models.BookedInterval) []Slot {
	times := CandidateTimes(q.Day)
	slots := make([]Slot, 0, len(times))
	for _, t := range times {
		start, _ := ParseClock(t)
		slot := Slot{Time: t, Available: true}
		if reason := blockReason(q, booked, start); reason != "" {
			slot.Available = false
			slot.Reason = reason
		}
		hour := start / 60
		slot.Popular = slot.Available && ((hour >= 10 && hour <= 14) || (hour >= 16 && hour <= 18))
		slots = append(slots, slot)
	}
	return slots
}

// Free reports whether a booking of q.DurationMinutes starting at clock fits. It applies
// the same rules as BuildSlots except grid alignment.
func Free(q Query, booked []models.BookedInterval, clock string) (bool, string) {
	start, err := ParseClock(clock)
	if err != nil {
		return false, err.Error()
	}
	if start < OpeningHour*60 {
		return false, "Before opening time"
	}
	reason := blockReason(q, booked, start)
	return reason == "", reason
}

func blockReason(q Query, booked []models.BookedInterval, start int) string {
	candidate := Interval{Start: start, End: start + q.duration()}

	if candidate.End > ClosingHour(q.Day)*60 {
		return ReasonAfterClose
	}
	if !q.Now.IsZero() && sameDay(q.Day, q.Now) {
		now := q.Now.In(q.Day.Location())
		if start <= now.Hour()*60+now.Minute() {
			return ReasonPassed
		}
	}

	busy := make(map[string]struct{})
	for _, b := range booked {
		bStart, err := ParseClock(b.BookingTime)
		if err != nil {
			continue
		}
		dur := b.DurationMinutes
		if dur <= 0 {
			dur = DefaultDurationMinutes
		}
		if !candidate.Overlaps(Interval{Start: bStart, End: bStart + dur}) {
			continue
		}
		if q.StylistID != nil {
			if b.StylistID != nil && *b.StylistID == *q.StylistID {
				return ReasonBooked
			}
			continue
		}
		key := "booking:" + b.BookingID
		if b.StylistID != nil {
			key = "stylist:" + *b.StylistID
		}
		busy[key] = struct{}{}
	}
	if q.StylistID == nil && len(busy) >= q.capacity() {
		return ReasonFullyBooked
	}
	return ""
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
