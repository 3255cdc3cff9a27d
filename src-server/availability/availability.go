// The `availability` package classifies calendar days against a set of busy
// intervals and drives the check-in/check-out range selection. Everything in
// this package is pure date arithmetic on normalized days; it never touches
// the network or the database, so the rendering surface can call it on every
// re-render.
package availability

import (
	"time"

	"solmar/src-server/ical"
)

type DayStatus int

const (
	StatusPast DayStatus = iota
	StatusBusy
	StatusAvailable
	StatusSelected
	StatusInRange
)

func (s DayStatus) String() string {
	switch s {
	case StatusPast:
		return "past"
	case StatusBusy:
		return "busy"
	case StatusAvailable:
		return "available"
	case StatusSelected:
		return "selected"
	case StatusInRange:
		return "in-range"
	default:
		return "unknown"
	}
}

// Normalize an instant to its civil date in the given timezone, encoded as
// midnight UTC. All functions in this package expect day-normalized inputs.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Number of whole days from a to b. Negative when b is before a.
func Nights(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// Classify a single day against the busy set and today. Past wins over busy:
// a reserved day that already went by renders as past.
func DayStatusOf(date time.Time, busy ical.BusyIntervalSet, today time.Time) DayStatus {
	if date.Before(today) {
		return StatusPast
	}
	if busy.Contains(date) {
		return StatusBusy
	}
	return StatusAvailable
}

// Report whether [checkIn, checkOut) is a valid stay: check-in not in the
// past, at least minNights nights, and no busy day inside the range. The
// checkout day itself may be busy since departures free it for the next
// arrival.
func RangeIsBookable(checkIn, checkOut time.Time, busy ical.BusyIntervalSet, minNights int, today time.Time) bool {
	if checkIn.Before(today) {
		return false
	}
	if minNights < 1 {
		minNights = 1
	}
	if Nights(checkIn, checkOut) < minNights {
		return false
	}
	return !busy.Overlaps(checkIn, checkOut)
}
