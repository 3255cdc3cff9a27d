package routes

import (
	"log/slog"
	"net/http"
	"time"

	"solmar/src-server/ical"
	"solmar/src-server/utils"
)

// The same-origin relay the calendar widget fetches feeds through, since the
// booking providers don't send CORS headers. The relay forwards the body
// verbatim on success and mirrors upstream failures in the status code:
//
//	400: missing or invalid `url` parameter
//	404: upstream body was empty
//	502: upstream returned a non-calendar body
//	5xx/4xx: the upstream's own status, passed through
//	500: unexpected relay-side failure
func Proxy(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /proxy-ical", Logging(func(w http.ResponseWriter, r *http.Request) {
		feedURL := r.URL.Query().Get("url")
		if feedURL == "" {
			writeJSONError(w, http.StatusBadRequest, "missing url parameter")
			return
		}

		start := time.Now()
		raw, fetchErr := ical.FetchFeed(r.Context(), as.HTTPClient, feedURL)
		go func() { as.MetricChans.FeedFetch <- float64(time.Since(start).Microseconds()) }()

		if fetchErr != nil {
			go func() { as.MetricChans.FeedError <- 1 }()
			slog.Warn("proxy fetch failed", "url", feedURL, "kind", fetchErr.Kind.String(), "error", fetchErr)
			switch fetchErr.Kind {
			case ical.FetchErrBadURL:
				writeJSONError(w, http.StatusBadRequest, "invalid url parameter")
			case ical.FetchErrStatus:
				writeJSONError(w, fetchErr.StatusCode, "upstream rejected the request")
			case ical.FetchErrEmptyBody:
				writeJSONError(w, http.StatusNotFound, "upstream returned no data")
			case ical.FetchErrNotCalendar:
				writeJSONError(w, http.StatusBadGateway, "upstream body is not a calendar")
			default:
				writeJSONError(w, http.StatusInternalServerError, "can't fetch feed")
			}
			return
		}

		w.Header().Set("Content-Type", "text/calendar")
		if _, err := w.Write([]byte(raw)); err != nil {
			slog.Warn("can't write proxied feed", "url", feedURL, "error", err)
		}
	}))
}
