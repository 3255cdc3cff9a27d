package routes

import (
	"net/http"
	"time"

	"solmar/src-server/availability"
	"solmar/src-server/model"
	"solmar/src-server/utils"
)

type availabilityDay struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Status string `json:"status"`
}

type availabilityResponse struct {
	Slug      string            `json:"slug"`
	MinNights int               `json:"min_nights"`
	HasData   bool              `json:"has_data"`
	FeedFresh bool              `json:"feed_fresh"`
	Days      []availabilityDay `json:"days"`
}

// Per-day availability for one apartment over a window of whole months,
// computed from the cached busy intervals. With no feed data ever loaded
// every day reports "unknown" and has_data is false; the client then shows
// the confirm-at-booking notice instead of blocking selection.
func Availability(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /api/apartments/{slug}/availability", Logging(func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		loc := as.Config.GetLocation()

		apartmentModel := new(model.Apartment)
		if err := as.BunDB.NewSelect().
			Model(apartmentModel).
			Where("slug = ?", slug).
			Scan(r.Context()); err != nil {
			writeJSONError(w, http.StatusNotFound, "no such apartment")
			return
		}

		from := availability.Day(time.Now(), loc)
		if fromParam := r.URL.Query().Get("from"); fromParam != "" {
			parsed, err := time.ParseInLocation("2006-01-02", fromParam, loc)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid from parameter, want YYYY-MM-DD")
				return
			}
			from = availability.Day(parsed, loc)
		}
		months := 2
		if monthsParam := r.URL.Query().Get("months"); monthsParam != "" {
			switch monthsParam {
			case "1", "2", "3", "6", "12":
				months = int(monthsParam[0] - '0')
				if monthsParam == "12" {
					months = 12
				}
			default:
				writeJSONError(w, http.StatusBadRequest, "invalid months parameter")
				return
			}
		}

		readStart := time.Now()
		intervalRows := make([]model.BusyInterval, 0)
		if err := as.BunDB.NewSelect().
			Model(&intervalRows).
			Where("apartment_id = ?", apartmentModel.ID).
			Order("start_day ASC").
			Scan(r.Context()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "can't load busy intervals")
			return
		}
		busy := model.IntervalSet(intervalRows)

		feedState := new(model.FeedState)
		hasData := false
		feedFresh := false
		if err := as.BunDB.NewSelect().
			Model(feedState).
			Where("apartment_id = ?", apartmentModel.ID).
			Scan(r.Context()); err == nil {
			hasData = feedState.FetchedAtUnix > 0
			feedFresh = hasData && feedState.LastError == ""
		}
		go func() { as.MetricChans.DatabaseRead <- float64(time.Since(readStart).Microseconds()) }()

		today := availability.Day(time.Now(), loc)
		// first of the starting month through the last day of the window
		first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := first.AddDate(0, months, 0)

		days := make([]availabilityDay, 0, 62)
		for day := first; day.Before(end); day = day.AddDate(0, 0, 1) {
			status := "unknown"
			if hasData {
				status = availability.DayStatusOf(day, busy, today).String()
			} else if day.Before(today) {
				status = availability.StatusPast.String()
			}
			days = append(days, availabilityDay{
				Date:   day.Format("2006-01-02"),
				Status: status,
			})
		}

		writeJSON(w, http.StatusOK, availabilityResponse{
			Slug:      apartmentModel.Slug,
			MinNights: apartmentModel.MinNights,
			HasData:   hasData,
			FeedFresh: feedFresh,
			Days:      days,
		})
	}))
}
