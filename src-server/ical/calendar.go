// The `ical` package fetches and parses iCalendar availability feeds into
// busy date intervals.
//
// # References:
// - RFC5545: https://datatracker.ietf.org/doc/html/rfc5545
//
// # Notes:
// - Booking exports are frequently non-conformant, so parsing is tolerant:
//   a malformed VEVENT is logged and skipped, the rest of the feed still
//   parses. Only an empty input fails the whole parse.
// - Events are reduced to whole calendar days in the display timezone;
//   the time-of-day component is discarded since stays are whole nights.
// - VALARM/VTIMEZONE sections are ignored. Recurring events are expanded
//   through their RRULE up to a fixed horizon.
//
// # Example usage:
//
// Fetch a feed and parse it
//	raw, fetchErr := ical.FetchFeed(ctx, client, "https://example.com/cal.ics")
//	busy, parseErr := ical.Parse(raw, time.UTC)
//
// Query the result
//	busy.Contains(day)
//	busy.Overlaps(checkIn, checkOut)

package ical

import (
	"log/slog"
	"strings"
	"time"

	"github.com/xyedo/rrule"
)

// How far past "now" recurring events are expanded. Rental feeds rarely
// recur at all; the bound keeps a runaway RRULE from producing an unbounded
// interval set.
const recurrenceHorizonYears = 2

// A single VEVENT block's raw properties, collected before conversion.
type rawEvent struct {
	uid      string
	summary  string
	dtstart  string // full line, parseDate needs the params
	dtend    string // full line
	duration string // value only
	rrule    string // value only
}

// Unmarshal raw iCalendar text into the minimal merged BusyIntervalSet.
// Individual malformed events are skipped with a warning; the parse only
// fails outright on empty input.
func Parse(rawText string, loc *time.Location) (BusyIntervalSet, *CustomError) {
	if loc == nil {
		loc = time.UTC
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, NewCustomError("empty calendar text", nil)
	}

	ignoredFields := map[string]struct{}{
		"X-APPLE-TRAVEL-ADVISORY-BEHAVIOR": {},
		"ACKNOWLEDGED":                     {},
		"X-APPLE-DEFAULT-ALARM":            {},
	}

	lineCh := make(chan string)
	go func() {
		defer close(lineCh)
		for _, line := range strings.Split(rawText, "\n") {
			lineCh <- strings.TrimRight(line, "\r")
		}
	}()

	// "lookahead" to merge lines that are split
	mergedLineCh := make(chan string)
	go func() {
		defer close(mergedLineCh)

		var lastLine string
		for currentLine := range lineCh {
			switch strings.HasPrefix(currentLine, " ") || strings.HasPrefix(currentLine, "\t") {
			case true:
				currentLine = lastLine + strings.TrimLeft(currentLine, " \t")
			case false:
				if lastLine != "" {
					mergedLineCh <- lastLine
				}
			}
			lastLine = currentLine
		}
		if lastLine != "" {
			mergedLineCh <- lastLine
		}
	}()

	horizon := time.Now().AddDate(recurrenceHorizonYears, 0, 0)
	raw := make([]BusyInterval, 0)
	ev := rawEvent{}
	inEvent := false
	ignoreDepth := 0
	lineCount := 0
	skipped := 0

	for line := range mergedLineCh {
		lineCount++
		slice := strings.SplitN(line, ":", 2)
		if len(slice) != 2 {
			slog.Warn("ignoring unsplittable line", "line", lineCount, "content", line)
			continue
		}
		key := strings.ToUpper(strings.TrimSpace(slice[0]))
		value := strings.TrimSpace(slice[1])
		name := strings.SplitN(key, ";", 2)[0]

		if _, ok := ignoredFields[name]; ok {
			continue
		}

		switch name {
		case "BEGIN":
			switch value {
			case "VCALENDAR":
			case "VEVENT":
				if ignoreDepth > 0 {
					ignoreDepth++
					continue
				}
				if inEvent {
					// unterminated previous event, drop it
					slog.Warn("nested VEVENT block, dropping previous event", "line", lineCount, "uid", ev.uid)
					skipped++
				}
				inEvent = true
				ev = rawEvent{}
			default:
				// VALARM, VTIMEZONE, vendor blocks: skip wholesale
				ignoreDepth++
			}
		case "END":
			switch {
			case ignoreDepth > 0:
				ignoreDepth--
			case value == "VEVENT" && inEvent:
				inEvent = false
				intervals, err := ev.toIntervals(loc, horizon)
				if err != nil {
					slog.Warn("skipping malformed event", "line", lineCount, "uid", ev.uid, "summary", ev.summary, "error", err)
					skipped++
					continue
				}
				raw = append(raw, intervals...)
			case value == "VCALENDAR":
			default:
				slog.Warn("unexpected END block", "line", lineCount, "content", line)
			}
		default:
			if ignoreDepth > 0 || !inEvent {
				continue
			}
			switch name {
			case "UID":
				ev.uid = value
			case "SUMMARY":
				ev.summary = value
			case "DTSTART":
				ev.dtstart = line
			case "DTEND":
				ev.dtend = line
			case "DURATION":
				ev.duration = value
			case "RRULE":
				ev.rrule = value
			}
		}
	}

	if skipped > 0 {
		slog.Warn("parsed calendar with skipped events", "skipped", skipped, "kept", len(raw))
	}

	return mergeIntervals(raw), nil
}

// Convert one collected VEVENT into whole-day busy intervals, expanding the
// RRULE when one is present.
func (ev *rawEvent) toIntervals(loc *time.Location, horizon time.Time) ([]BusyInterval, error) {
	if ev.dtstart == "" {
		return nil, NewCustomError("event has no DTSTART", map[string]any{"uid": ev.uid})
	}
	start, err := parseDate(ev.dtstart, loc)
	if err != nil {
		return nil, NewCustomError("can't parse DTSTART", map[string]any{"uid": ev.uid, "err": err})
	}
	startDay := toDay(*start, loc)

	var endDay time.Time
	switch {
	case ev.dtend != "":
		end, err := parseDate(ev.dtend, loc)
		if err != nil {
			return nil, NewCustomError("can't parse DTEND", map[string]any{"uid": ev.uid, "err": err})
		}
		endDay = toDay(*end, loc)
	case ev.duration != "":
		dur, err := parseDuration(ev.duration)
		if err != nil {
			return nil, NewCustomError("can't parse DURATION", map[string]any{"uid": ev.uid, "err": err})
		}
		endDay = toDay(start.Add(dur), loc)
	default:
		// no end, no duration: a single busy day
		endDay = startDay.AddDate(0, 0, 1)
	}
	if !endDay.After(startDay) {
		endDay = startDay.AddDate(0, 0, 1)
	}

	base := BusyInterval{Start: startDay, End: endDay}
	if ev.rrule == "" {
		return []BusyInterval{base}, nil
	}

	var sb strings.Builder
	sb.WriteString("DTSTART:" + start.UTC().Format("20060102T150405Z"))
	sb.WriteString("\nRRULE:" + ev.rrule)
	rruleSet, err := rrule.StrToRRuleSet(sb.String())
	if err != nil {
		slog.Warn("can't parse rrule, keeping single occurrence", "uid", ev.uid, "rrule", ev.rrule, "error", err)
		return []BusyInterval{base}, nil
	}

	nights := int(endDay.Sub(startDay).Hours() / 24)
	occurrences := rruleSet.Between(*start, horizon, true)
	if len(occurrences) == 0 {
		return []BusyInterval{base}, nil
	}

	intervals := make([]BusyInterval, 0, len(occurrences))
	for _, occ := range occurrences {
		day := toDay(occ, loc)
		intervals = append(intervals, BusyInterval{Start: day, End: day.AddDate(0, 0, nights)})
	}
	return intervals, nil
}
