package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"solmar/src-server/availability"
	"solmar/src-server/booking"
	"solmar/src-server/localize"
	"solmar/src-server/model"
	"solmar/src-server/store"
	"solmar/src-server/utils"
)

func Apartments(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /api/apartments", Logging(func(w http.ResponseWriter, r *http.Request) {
		apartmentModels := make([]model.Apartment, 0)
		if err := as.BunDB.NewSelect().
			Model(&apartmentModels).
			Order("slug ASC").
			Scan(r.Context()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "can't load apartments")
			return
		}
		writeJSON(w, http.StatusOK, apartmentModels)
	}))

	muxer.HandleFunc("GET /api/apartments/{slug}", Logging(func(w http.ResponseWriter, r *http.Request) {
		apartmentModel := new(model.Apartment)
		if err := as.BunDB.NewSelect().
			Model(apartmentModel).
			Where("slug = ?", r.PathValue("slug")).
			Scan(r.Context()); err != nil {
			writeJSONError(w, http.StatusNotFound, "no such apartment")
			return
		}
		writeJSON(w, http.StatusOK, apartmentModel)
	}))

	// Validate a selected range server-side and hand back the provider URL
	// with the dates attached. The widget already enforces the same rules;
	// this is the authoritative check behind it.
	muxer.HandleFunc("GET /api/apartments/{slug}/booking-link", Logging(func(w http.ResponseWriter, r *http.Request) {
		loc := as.Config.GetLocation()

		apartmentModel := new(model.Apartment)
		if err := as.BunDB.NewSelect().
			Model(apartmentModel).
			Where("slug = ?", r.PathValue("slug")).
			Scan(r.Context()); err != nil {
			writeJSONError(w, http.StatusNotFound, "no such apartment")
			return
		}

		checkIn, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("checkin"), loc)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid checkin parameter, want YYYY-MM-DD")
			return
		}
		checkOut, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("checkout"), loc)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid checkout parameter, want YYYY-MM-DD")
			return
		}

		intervalRows := make([]model.BusyInterval, 0)
		if err := as.BunDB.NewSelect().
			Model(&intervalRows).
			Where("apartment_id = ?", apartmentModel.ID).
			Scan(r.Context()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "can't load busy intervals")
			return
		}

		checkInDay := availability.Day(checkIn, loc)
		checkOutDay := availability.Day(checkOut, loc)
		today := availability.Day(time.Now(), loc)
		if !availability.RangeIsBookable(checkInDay, checkOutDay, model.IntervalSet(intervalRows), apartmentModel.MinNights, today) {
			writeJSONError(w, http.StatusConflict, "range is not bookable")
			return
		}

		snap := availability.Snapshot{CheckIn: checkInDay, CheckOut: checkOutDay, IsValid: true}
		link, err := booking.BuildURL(apartmentModel.BookingURL, snap)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "can't build booking link")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"check_in":  snap.CheckInISO(),
			"check_out": snap.CheckOutISO(),
			"is_valid":  snap.IsValid,
			"url":       link,
		})
	}))
}

func Content(muxer *http.ServeMux, as *utils.AppState, contentStore store.ContentStore, localizer *localize.Service) {
	muxer.HandleFunc("GET /api/content", Logging(func(w http.ResponseWriter, r *http.Request) {
		content, err := contentStore.Load(r.Context())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "can't load content")
			return
		}
		writeJSON(w, http.StatusOK, content)
	}))

	muxer.HandleFunc("PUT /api/content", Logging(func(w http.ResponseWriter, r *http.Request) {
		content := new(store.Content)
		if err := json.NewDecoder(r.Body).Decode(content); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid content body")
			return
		}
		if err := contentStore.Save(r.Context(), content); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "can't save content")
			return
		}
		// operator-edited strings take effect without a restart
		for _, entry := range content.Entries {
			localizer.Apply(entry.Locale, localize.Key(entry.Key), entry.Value)
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	}))

	muxer.HandleFunc("GET /api/translations/{lang}", Logging(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, localizer.Table(r.PathValue("lang")))
	}))
}
