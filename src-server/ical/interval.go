package ical

import (
	"sort"
	"time"
)

// A single reserved range, half-open: the Start day is the first busy night,
// the End day is the departure day and is free again for a new check-in.
type BusyInterval struct {
	Start time.Time `json:"start"` // check-in day, inclusive
	End   time.Time `json:"end"`   // check-out day, exclusive
}

// An ordered, non-overlapping sequence of busy ranges sorted by Start.
// Produced by Parse; never mutated afterwards.
type BusyIntervalSet []BusyInterval

// Report whether the given day falls inside any busy range.
func (s BusyIntervalSet) Contains(day time.Time) bool {
	for _, iv := range s {
		if !day.Before(iv.Start) && day.Before(iv.End) {
			return true
		}
	}
	return false
}

// Report whether any busy day falls inside the half-open range [start, end).
func (s BusyIntervalSet) Overlaps(start, end time.Time) bool {
	for _, iv := range s {
		if iv.Start.Before(end) && start.Before(iv.End) {
			return true
		}
	}
	return false
}

func (s BusyIntervalSet) Equal(other BusyIntervalSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Start.Equal(other[i].Start) || !s[i].End.Equal(other[i].End) {
			return false
		}
	}
	return true
}

// Sort raw intervals by start and collapse overlapping or touching ranges
// into the minimal equivalent set. Touching ranges merge: back-to-back
// bookings are contiguous busy time, the shared day is a checkout and a
// check-in at once.
func mergeIntervals(raw []BusyInterval) BusyIntervalSet {
	if len(raw) == 0 {
		return BusyIntervalSet{}
	}

	sorted := make([]BusyInterval, len(raw))
	copy(sorted, raw)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := BusyIntervalSet{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start.After(last.End) {
			merged = append(merged, iv)
			continue
		}
		if iv.End.After(last.End) {
			last.End = iv.End
		}
	}
	return merged
}
