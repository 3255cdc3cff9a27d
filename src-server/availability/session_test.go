package availability

import (
	"context"
	"testing"
	"time"

	"solmar/src-server/ical"
)

func feedFor(url string) string {
	switch url {
	case "https://example.com/a.ics":
		return "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART;VALUE=DATE:20250610\r\nDTEND;VALUE=DATE:20250614\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	case "https://example.com/b.ics":
		return "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART;VALUE=DATE:20250701\r\nDTEND;VALUE=DATE:20250705\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	default:
		return ""
	}
}

func TestSessionRefresh(t *testing.T) {
	fetch := func(ctx context.Context, url string) (string, *ical.FetchError) {
		return feedFor(url), nil
	}
	session := NewSession("https://example.com/a.ics", 2, time.UTC, fetch)

	if session.HasData() {
		t.Fatal("no data before first refresh")
	}
	session.Refresh(context.Background())
	if !session.HasData() {
		t.Fatal("data expected after refresh")
	}
	if !session.Busy().Contains(day(2025, 6, 12)) {
		t.Error("busy set not installed")
	}
	if session.Stale(time.Minute) {
		t.Error("freshly refreshed session must not be stale")
	}
}

func TestSessionKeepsLastGoodSetOnFailure(t *testing.T) {
	failing := false
	fetch := func(ctx context.Context, url string) (string, *ical.FetchError) {
		if failing {
			return "", &ical.FetchError{Kind: ical.FetchErrNetwork}
		}
		return feedFor(url), nil
	}
	session := NewSession("https://example.com/a.ics", 2, time.UTC, fetch)

	session.Refresh(context.Background())
	failing = true
	session.Refresh(context.Background())

	// stale-while-revalidate: old data still drives the selection
	if !session.HasData() {
		t.Error("failed refresh must not drop the last good set")
	}
	if !session.Busy().Contains(day(2025, 6, 12)) {
		t.Error("last good busy set should survive the failure")
	}
	if session.LastFetchError() == nil {
		t.Error("failure should be recorded")
	}
}

func TestSessionDiscardsStaleResultAfterURLChange(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context, url string) (string, *ical.FetchError) {
		if url == "https://example.com/a.ics" {
			close(started)
			<-release
		}
		return feedFor(url), nil
	}
	session := NewSession("https://example.com/a.ics", 2, time.UTC, fetch)

	done := make(chan struct{})
	go func() {
		session.Refresh(context.Background())
		close(done)
	}()

	<-started
	// the view switched apartments while the fetch was in flight
	session.SetFeedURL("https://example.com/b.ics")
	close(release)
	<-done

	if session.HasData() {
		t.Error("result for the old URL must be discarded")
	}

	session.Refresh(context.Background())
	if !session.Busy().Contains(day(2025, 7, 2)) {
		t.Error("refresh after the switch should load the new feed")
	}
	if session.Busy().Contains(day(2025, 6, 12)) {
		t.Error("old feed's intervals must not leak into the new session")
	}
}

func TestSessionDiscardsResultAfterClose(t *testing.T) {
	fetch := func(ctx context.Context, url string) (string, *ical.FetchError) {
		return feedFor(url), nil
	}
	session := NewSession("https://example.com/a.ics", 2, time.UTC, fetch)

	session.Close()
	session.Refresh(context.Background())
	if session.HasData() {
		t.Error("refresh completing after close must not install data")
	}
}

func TestSessionSelectionUsesLoadedData(t *testing.T) {
	fetch := func(ctx context.Context, url string) (string, *ical.FetchError) {
		return feedFor(url), nil
	}
	session := NewSession("https://example.com/a.ics", 1, time.UTC, fetch)
	session.Refresh(context.Background())

	future := Day(time.Now().AddDate(1, 0, 0), time.UTC)
	session.OnDayClick(future)
	snap := session.OnDayClick(future.AddDate(0, 0, 3))
	if !snap.IsValid {
		t.Errorf("three-night future stay should complete: %+v", snap)
	}

	snap = session.ClearSelection()
	if snap.IsValid || !snap.CheckIn.IsZero() {
		t.Errorf("clear should reset: %+v", snap)
	}
}
