package booking

import (
	"net/url"
	"testing"
	"time"

	"solmar/src-server/availability"
)

func TestBuildURL(t *testing.T) {
	snap := availability.Snapshot{
		CheckIn:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		IsValid:  true,
	}

	link, err := BuildURL("https://booking.example.com/book?apt=12", snap)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	query := parsed.Query()
	if query.Get("checkin") != "2025-06-01" || query.Get("checkout") != "2025-06-05" {
		t.Errorf("wrong date params: %v", query)
	}
	if query.Get("apt") != "12" {
		t.Error("existing query params must survive")
	}
}

func TestBuildURLRejectsIncomplete(t *testing.T) {
	snap := availability.Snapshot{
		CheckIn: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		IsValid: false,
	}
	if _, err := BuildURL("https://booking.example.com/book", snap); err == nil {
		t.Error("incomplete selection should be refused")
	}

	valid := availability.Snapshot{
		CheckIn:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		IsValid:  true,
	}
	if _, err := BuildURL("", valid); err == nil {
		t.Error("missing base URL should be refused")
	}
}
