package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"solmar/src-server/utils"
)

const validFeed = "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nDTSTART;VALUE=DATE:20250610\r\nDTEND;VALUE=DATE:20250614\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"

func newProxyTestState() *utils.AppState {
	as := &utils.AppState{
		HTTPClient:  http.DefaultClient,
		MetricChans: utils.NewMetric(),
	}
	// nobody collects metrics in tests, drain the channels
	go func() {
		for {
			select {
			case <-as.MetricChans.FeedFetch:
			case <-as.MetricChans.FeedError:
			case <-as.MetricChans.DatabaseRead:
			case <-as.MetricChans.DatabaseWrite:
			}
		}
	}()
	return as
}

func proxyRequest(t *testing.T, muxer *http.ServeMux, feedURL string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/proxy-ical"
	if feedURL != "" {
		target += "?url=" + url.QueryEscape(feedURL)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	muxer.ServeHTTP(recorder, req)
	return recorder
}

func TestProxySuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(validFeed))
	}))
	defer upstream.Close()

	muxer := http.NewServeMux()
	Proxy(muxer, newProxyTestState())

	recorder := proxyRequest(t, muxer, upstream.URL)
	if recorder.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", recorder.Code)
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/calendar" {
		t.Errorf("want text/calendar, got %q", got)
	}
	body, _ := io.ReadAll(recorder.Body)
	if string(body) != validFeed {
		t.Error("feed body must be forwarded verbatim")
	}
}

func TestProxyMissingAndInvalidURL(t *testing.T) {
	muxer := http.NewServeMux()
	Proxy(muxer, newProxyTestState())

	if recorder := proxyRequest(t, muxer, ""); recorder.Code != http.StatusBadRequest {
		t.Errorf("missing url: want 400, got %d", recorder.Code)
	}
	recorder := proxyRequest(t, muxer, "not-a-url")
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("invalid url: want 400, got %d", recorder.Code)
	}

	var errBody map[string]string
	if err := json.NewDecoder(recorder.Body).Decode(&errBody); err != nil {
		t.Fatal(err)
	}
	if errBody["error"] == "" {
		t.Error("error responses must carry a JSON error body")
	}
}

func TestProxyMirrorsUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer upstream.Close()

	muxer := http.NewServeMux()
	Proxy(muxer, newProxyTestState())

	if recorder := proxyRequest(t, muxer, upstream.URL); recorder.Code != http.StatusGone {
		t.Errorf("want upstream's 410, got %d", recorder.Code)
	}
}

func TestProxyEmptyUpstreamBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	muxer := http.NewServeMux()
	Proxy(muxer, newProxyTestState())

	if recorder := proxyRequest(t, muxer, upstream.URL); recorder.Code != http.StatusNotFound {
		t.Errorf("empty body: want 404, got %d", recorder.Code)
	}
}

func TestProxyNonCalendarBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not a calendar</html>"))
	}))
	defer upstream.Close()

	muxer := http.NewServeMux()
	Proxy(muxer, newProxyTestState())

	if recorder := proxyRequest(t, muxer, upstream.URL); recorder.Code != http.StatusBadGateway {
		t.Errorf("non-calendar body: want 502, got %d", recorder.Code)
	}
}
