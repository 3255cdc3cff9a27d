package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Maximum feed body accepted; booking exports are a few KB, anything past
// this is not a calendar.
const maxFeedBytes = 4 << 20

type FetchErrorKind int

const (
	// the URL parameter itself was missing or not an absolute http(s) URL
	FetchErrBadURL FetchErrorKind = iota
	// network failure or timeout; retry after the cache TTL
	FetchErrNetwork
	// upstream returned a non-success status, see StatusCode
	FetchErrStatus
	// upstream returned success with an empty body
	FetchErrEmptyBody
	// body carried no calendar markers; logged, not retried immediately
	FetchErrNotCalendar
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchErrBadURL:
		return "bad-url"
	case FetchErrNetwork:
		return "network"
	case FetchErrStatus:
		return "status"
	case FetchErrEmptyBody:
		return "empty-body"
	case FetchErrNotCalendar:
		return "not-calendar"
	default:
		return "unknown"
	}
}

type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int // set for FetchErrStatus
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchErrStatus:
		return fmt.Sprintf("fetch feed: upstream status %d", e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch feed (%s): %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch feed: %s", e.Kind)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetch a remote calendar feed and return the raw document text. One request
// per call, no retries here; retry and backoff policy belongs to the caller.
// The body must contain a VCALENDAR wrapper to be accepted, a bare VEVENT
// dump is rejected as non-calendar content.
func FetchFeed(ctx context.Context, client *http.Client, rawURL string) (string, *FetchError) {
	validURL, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", &FetchError{Kind: FetchErrBadURL, Err: err}
	}
	if validURL.Scheme != "http" && validURL.Scheme != "https" || validURL.Host == "" {
		return "", &FetchError{Kind: FetchErrBadURL, Err: fmt.Errorf("not an absolute http(s) URL: %q", rawURL)}
	}

	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, validURL.String(), nil)
	if err != nil {
		return "", &FetchError{Kind: FetchErrNetwork, Err: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{Kind: FetchErrNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Kind: FetchErrStatus, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", &FetchError{Kind: FetchErrNetwork, Err: err}
	}

	text := string(body)
	if strings.TrimSpace(text) == "" {
		return "", &FetchError{Kind: FetchErrEmptyBody}
	}
	if !strings.Contains(text, "BEGIN:VCALENDAR") {
		return "", &FetchError{Kind: FetchErrNotCalendar, Err: fmt.Errorf("no VCALENDAR marker in body")}
	}

	return text, nil
}
