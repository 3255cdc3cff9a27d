package availability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"solmar/src-server/ical"
)

// Fetches a feed's raw text; swapped out in tests.
type FetchFunc func(ctx context.Context, url string) (string, *ical.FetchError)

// One apartment-detail view's worth of state: the last good busy set, the
// in-progress selection, and the feed-refresh bookkeeping. While a fetch is
// in flight the selection keeps operating on the last parsed set, and a
// result that arrives after the URL changed or the session closed is
// discarded via a generation counter, never applied.
type Session struct {
	mu sync.Mutex

	icalURL   string
	minNights int
	loc       *time.Location
	fetch     FetchFunc

	generation uint64
	busy       ical.BusyIntervalSet
	hasData    bool
	fetchedAt  time.Time
	lastErr    *ical.FetchError

	sel *Selection
}

func NewSession(icalURL string, minNights int, loc *time.Location, fetch FetchFunc) *Session {
	if loc == nil {
		loc = time.UTC
	}
	s := &Session{
		icalURL:   icalURL,
		minNights: minNights,
		loc:       loc,
		fetch:     fetch,
	}
	s.sel = NewSelection(nil, minNights, Day(time.Now(), loc))
	return s
}

// Fetch and parse the feed, then install the result unless the session moved
// on while the request was in flight. Blocks until done; callers wanting
// fire-and-forget run it in a goroutine.
func (s *Session) Refresh(ctx context.Context) {
	s.mu.Lock()
	gen := s.generation
	url := s.icalURL
	fetch := s.fetch
	s.mu.Unlock()

	if url == "" || fetch == nil {
		return
	}

	raw, fetchErr := fetch(ctx, url)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		// URL changed or session closed mid-flight
		slog.Debug("discarding stale feed result", "url", url)
		return
	}
	if fetchErr != nil {
		// keep the last good busy set, surface unverified availability
		s.lastErr = fetchErr
		slog.Warn("feed refresh failed", "url", url, "kind", fetchErr.Kind.String(), "error", fetchErr)
		return
	}

	busy, parseErr := ical.Parse(raw, s.loc)
	if parseErr != nil {
		slog.Warn("feed parse failed", "url", url, "error", parseErr)
		return
	}

	s.busy = busy
	s.hasData = true
	s.fetchedAt = time.Now()
	s.lastErr = nil
	s.sel.SetBusy(busy)
}

// Point the session at a different feed. Resets the selection and bumps the
// generation so any in-flight fetch result for the old URL is dropped.
func (s *Session) SetFeedURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == s.icalURL {
		return
	}
	s.generation++
	s.icalURL = url
	s.busy = nil
	s.hasData = false
	s.lastErr = nil
	s.sel = NewSelection(nil, s.minNights, Day(time.Now(), s.loc))
}

// Unmount. Later fetch results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
}

// True when the last successful fetch is older than ttl (or never happened).
func (s *Session) Stale(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasData {
		return true
	}
	return time.Since(s.fetchedAt) > ttl
}

// Whether any feed data ever loaded. While false, days render as
// status-unknown and the UI asks the guest to confirm availability at
// booking time.
func (s *Session) HasData() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasData
}

func (s *Session) LastFetchError() *ical.FetchError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) Busy() ical.BusyIntervalSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *Session) OnDayClick(date time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.OnDayClick(date)
}

func (s *Session) ClearSelection() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Clear()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Snapshot()
}
