package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse an RFC 5545 DURATION value (e.g. `P4D`, `P1W`, `PT12H`, `-P1DT6H`)
// into a time.Duration. Years and months are not valid in iCalendar durations
// and are rejected.
func parseDuration(value string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	negative := false
	switch {
	case strings.HasPrefix(raw, "-"):
		negative = true
		raw = raw[1:]
	case strings.HasPrefix(raw, "+"):
		raw = raw[1:]
	}
	if !strings.HasPrefix(raw, "P") {
		return 0, fmt.Errorf("duration must start with 'P': %q", value)
	}
	raw = raw[1:]

	var total time.Duration
	inTime := false
	parsedAny := false
	number := ""
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			number += string(r)
			continue
		case r == 'T':
			inTime = true
			continue
		}

		n, err := strconv.Atoi(number)
		if err != nil {
			return 0, fmt.Errorf("missing digits before %q in %q", string(r), value)
		}
		number = ""

		switch {
		case r == 'W' && !inTime:
			total += time.Duration(n) * 7 * 24 * time.Hour
		case r == 'D' && !inTime:
			total += time.Duration(n) * 24 * time.Hour
		case r == 'H' && inTime:
			total += time.Duration(n) * time.Hour
		case r == 'M' && inTime:
			total += time.Duration(n) * time.Minute
		case r == 'S' && inTime:
			total += time.Duration(n) * time.Second
		default:
			return 0, fmt.Errorf("unsupported designator %q in %q", string(r), value)
		}
		parsedAny = true
	}
	if number != "" {
		return 0, fmt.Errorf("trailing digits without designator in %q", value)
	}
	if !parsedAny {
		return 0, fmt.Errorf("duration has no components: %q", value)
	}

	if negative {
		return -total, nil
	}
	return total, nil
}
