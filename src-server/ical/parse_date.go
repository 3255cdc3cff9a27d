package ical

import (
	"fmt"
	"strings"
	"time"
)

// Parsing fields containing date or date-time values
//
// - `aaa;TZID=bbb:ccc`
// - `aaa;VALUE=DATE:ccc`
// - `aaa:cccZ`
//
// `aaa` will be ignored; `bbb` is the time zone; `ccc` is the date or
// date-time value. The returned time keeps whatever zone the token carried;
// callers normalize to a whole calendar day afterwards.
func parseDate(rawText string, loc *time.Location) (*time.Time, error) {
	slice := strings.SplitN(rawText, ":", 2)
	if len(slice) < 2 {
		return nil, fmt.Errorf("must be splitable by ':'")
	}
	value := strings.TrimSpace(slice[1])

	switch len(value) {
	case 16:
		res, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return nil, err
		}
		return &res, nil
	case 8:
		// date-only value, interpreted in the display timezone
		res, err := time.ParseInLocation("20060102", value, loc)
		if err != nil {
			return nil, err
		}
		return &res, nil
	}

	properties := make(map[string]string)
	if strings.Contains(slice[0], ";") {
		for _, prop := range strings.Split(slice[0], ";") {
			if strings.Contains(prop, "=") {
				parts := strings.Split(prop, "=")
				properties[parts[0]] = parts[1]
			}
		}
	}

	if tzidString, ok := properties["TZID"]; ok {
		location, err := time.LoadLocation(tzidString)
		if err != nil {
			return nil, fmt.Errorf("invalid TZID: %s", err)
		}
		result, err := time.ParseInLocation("20060102T150405", value, location)
		if err != nil {
			return nil, err
		}
		return &result, nil
	}

	// floating local time; booking feeds emit these for provider-local stays
	result, err := time.ParseInLocation("20060102T150405", value, loc)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Normalize an instant to its civil date in the display timezone, encoded as
// midnight UTC. All interval math downstream runs on these normalized days so
// DST shifts can't produce fractional nights.
func toDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
