package ical

import (
	"testing"
	"time"
)

func TestParseDateUTC(t *testing.T) {
	res, err := parseDate("DTSTART:20250610T160000Z", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	if !res.Equal(want) {
		t.Errorf("want %v, got %v", want, res)
	}
}

func TestParseDateDateOnly(t *testing.T) {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		t.Fatal(err)
	}
	res, err := parseDate("DTSTART;VALUE=DATE:20250610", lisbon)
	if err != nil {
		t.Fatal(err)
	}
	if res.Year() != 2025 || res.Month() != time.June || res.Day() != 10 {
		t.Errorf("wrong date: %v", res)
	}
	if res.Location() != lisbon {
		t.Errorf("date-only value should parse in display timezone, got %v", res.Location())
	}
}

func TestParseDateTZID(t *testing.T) {
	res, err := parseDate("DTSTART;TZID=Europe/Berlin:20250610T140000", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if res.Hour() != 14 {
		t.Errorf("want hour 14 in Berlin, got %v", res)
	}
	if _, offset := res.Zone(); offset == 0 {
		t.Error("Berlin summer time should have a non-zero offset")
	}
}

func TestParseDateFloating(t *testing.T) {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		t.Fatal(err)
	}
	res, err := parseDate("DTSTART:20250610T140000", lisbon)
	if err != nil {
		t.Fatal(err)
	}
	if res.Location() != lisbon {
		t.Errorf("floating time should land in display timezone, got %v", res.Location())
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, raw := range []string{
		"DTSTART",
		"DTSTART:not-a-date",
		"DTSTART;TZID=Nowhere/Fake:20250610T140000",
	} {
		if _, err := parseDate(raw, time.UTC); err == nil {
			t.Errorf("%q should fail", raw)
		}
	}
}

func TestToDay(t *testing.T) {
	lisbon, err := time.LoadLocation("Europe/Lisbon")
	if err != nil {
		t.Fatal(err)
	}
	// 23:30 UTC on the 10th is already the 11th in Berlin, still the 10th in Lisbon
	instant := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	if got := toDay(instant, lisbon); !got.Equal(day(2025, 6, 10)) {
		t.Errorf("want 2025-06-10, got %v", got)
	}
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	if got := toDay(instant, berlin); !got.Equal(day(2025, 6, 11)) {
		t.Errorf("want 2025-06-11, got %v", got)
	}
}
