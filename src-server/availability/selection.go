package availability

import (
	"time"

	"solmar/src-server/ical"
)

type Phase int

const (
	PhaseEmpty Phase = iota
	PhaseSelectingCheckout
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhaseSelectingCheckout:
		return "selecting-checkout"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// What the booking-link builder consumes after every transition. CheckIn and
// CheckOut are zero while unset; IsValid is true only in PhaseComplete.
type Snapshot struct {
	CheckIn  time.Time
	CheckOut time.Time
	IsValid  bool
}

const isoDate = "2006-01-02"

// ISO-8601 date strings (YYYY-MM-DD, no time component), empty while unset.
func (s Snapshot) CheckInISO() string {
	if s.CheckIn.IsZero() {
		return ""
	}
	return s.CheckIn.Format(isoDate)
}

func (s Snapshot) CheckOutISO() string {
	if s.CheckOut.IsZero() {
		return ""
	}
	return s.CheckOut.Format(isoDate)
}

// The interactive date-range selection machine. Clicks never produce errors:
// an invalid click is a no-op or restarts the window. One Selection per
// apartment-detail view; throw it away when the view's feed URL or minimum
// nights change.
type Selection struct {
	busy      ical.BusyIntervalSet
	minNights int
	today     time.Time

	phase    Phase
	checkIn  time.Time
	checkOut time.Time
}

func NewSelection(busy ical.BusyIntervalSet, minNights int, today time.Time) *Selection {
	if minNights < 1 {
		minNights = 1
	}
	return &Selection{
		busy:      busy,
		minNights: minNights,
		today:     today,
		phase:     PhaseEmpty,
	}
}

func (s *Selection) Phase() Phase {
	return s.phase
}

func (s *Selection) Snapshot() Snapshot {
	return Snapshot{
		CheckIn:  s.checkIn,
		CheckOut: s.checkOut,
		IsValid:  s.phase == PhaseComplete,
	}
}

// Feed one day click into the machine and return the resulting snapshot.
// date must be day-normalized (see Day).
func (s *Selection) OnDayClick(date time.Time) Snapshot {
	switch s.phase {
	case PhaseEmpty:
		if DayStatusOf(date, s.busy, s.today) != StatusAvailable {
			return s.Snapshot()
		}
		s.checkIn = date
		s.phase = PhaseSelectingCheckout

	case PhaseSelectingCheckout:
		switch {
		case date.Equal(s.checkIn):
			// deselect
			return s.Clear()
		case date.Before(s.checkIn):
			s.checkIn = date
		case RangeIsBookable(s.checkIn, date, s.busy, s.minNights, s.today):
			s.checkOut = date
			s.phase = PhaseComplete
		case s.busy.Overlaps(s.checkIn, date) || s.checkIn.Before(s.today):
			// clicking past a busy day begins a fresh window
			s.checkIn = date
		default:
			// insufficient nights: wait for a later date
		}

	case PhaseComplete:
		s.checkIn = date
		s.checkOut = time.Time{}
		s.phase = PhaseSelectingCheckout
	}

	return s.Snapshot()
}

// Swap in a freshly parsed busy set, resetting the selection only when it no
// longer holds against the new data.
func (s *Selection) SetBusy(busy ical.BusyIntervalSet) {
	s.busy = busy
	switch s.phase {
	case PhaseSelectingCheckout:
		if busy.Contains(s.checkIn) {
			s.Clear()
		}
	case PhaseComplete:
		if !RangeIsBookable(s.checkIn, s.checkOut, busy, s.minNights, s.today) {
			s.Clear()
		}
	}
}

// Unconditionally reset to the empty state.
func (s *Selection) Clear() Snapshot {
	s.checkIn = time.Time{}
	s.checkOut = time.Time{}
	s.phase = PhaseEmpty
	return s.Snapshot()
}

// Classify a day for rendering, layering the current selection on top of the
// base past/busy/available status.
func (s *Selection) DayStatus(date time.Time) DayStatus {
	if s.phase != PhaseEmpty && date.Equal(s.checkIn) {
		return StatusSelected
	}
	if s.phase == PhaseComplete {
		if date.Equal(s.checkOut) {
			return StatusSelected
		}
		if date.After(s.checkIn) && date.Before(s.checkOut) {
			return StatusInRange
		}
	}
	return DayStatusOf(date, s.busy, s.today)
}
