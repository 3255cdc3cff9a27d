package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"solmar/src-server/ical"
	"solmar/src-server/model"
	"solmar/src-server/utils"
)

const (
	WORKER_COUNT = 4
)

// Periodically re-fetch every apartment's calendar feed and replace its
// cached busy intervals. A failed fetch keeps the previous intervals and
// records the error on the feed state, so availability serves stale data
// rather than none; there is no tight retry, the next attempt waits a full
// interval.
func FeedRefresh(as *utils.AppState) {
	gracefulShutdownCh := as.CreateGracefulShutdownChan()

	for {
		refreshAll(as)

		select {
		case <-*gracefulShutdownCh:
			slog.Debug("feed refresh stopped")
			return
		case <-time.After(as.Config.GetCalendarUpdateInterval()):
		}
	}
}

func refreshAll(as *utils.AppState) {
	apartmentModels := []model.Apartment{}
	if err := as.BunDB.
		NewSelect().
		Model(&apartmentModels).
		Where("ical_url LIKE ?", "http%").
		Scan(context.Background()); err != nil {
		slog.Error("can't get apartments for feed refresh", "error", err)
		return
	}
	if len(apartmentModels) == 0 {
		return
	}

	jobs := make(chan model.Apartment, len(apartmentModels))
	var wg sync.WaitGroup

	for range WORKER_COUNT {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for apartmentModel := range jobs {
				refreshOne(as, apartmentModel)
			}
		}()
	}

	for _, apartmentModel := range apartmentModels {
		jobs <- apartmentModel
	}
	close(jobs)

	wg.Wait()
}

func refreshOne(as *utils.AppState, apartmentModel model.Apartment) {
	ctx, cancel := context.WithTimeout(context.Background(), as.Config.GetFetchTimeout())
	defer cancel()

	start := time.Now()
	raw, fetchErr := ical.FetchFeed(ctx, as.HTTPClient, apartmentModel.IcalURL)
	go func() { as.MetricChans.FeedFetch <- float64(time.Since(start).Microseconds()) }()

	if fetchErr != nil {
		go func() { as.MetricChans.FeedError <- 1 }()
		slog.Warn("feed refresh: can't fetch feed",
			"apartment", apartmentModel.Slug, "url", apartmentModel.IcalURL,
			"kind", fetchErr.Kind.String(), "error", fetchErr)
		recordFailure(as, apartmentModel, fetchErr)
		return
	}

	busy, parseErr := ical.Parse(raw, as.Config.GetLocation())
	if parseErr != nil {
		go func() { as.MetricChans.FeedError <- 1 }()
		slog.Warn("feed refresh: can't parse feed",
			"apartment", apartmentModel.Slug, "url", apartmentModel.IcalURL, "error", parseErr)
		recordFailure(as, apartmentModel, parseErr)
		return
	}

	writeStart := time.Now()
	if err := as.BunDB.RunInTx(context.Background(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*model.BusyInterval)(nil)).
			Where("apartment_id = ?", apartmentModel.ID).
			Exec(ctx); err != nil {
			return fmt.Errorf("can't delete old intervals: %w", err)
		}

		if rows := model.IntervalRows(apartmentModel.ID, busy); len(rows) > 0 {
			if _, err := tx.NewInsert().
				Model(&rows).
				Exec(ctx); err != nil {
				return fmt.Errorf("can't insert intervals: %w", err)
			}
		}

		feedState := model.FeedState{
			ApartmentID:   apartmentModel.ID,
			URL:           apartmentModel.IcalURL,
			Hash:          utils.HashText(raw),
			FetchedAtUnix: time.Now().Unix(),
			LastError:     "",
		}
		return feedState.Upsert(ctx, tx)
	}); err != nil {
		slog.Warn("feed refresh: can't store intervals",
			"apartment", apartmentModel.Slug, "error", err)
		return
	}
	go func() { as.MetricChans.DatabaseWrite <- float64(time.Since(writeStart).Microseconds()) }()

	slog.Info("feed refreshed",
		"apartment", apartmentModel.Slug, "intervals", len(busy))
}

func recordFailure(as *utils.AppState, apartmentModel model.Apartment, cause error) {
	feedState := new(model.FeedState)
	err := as.BunDB.NewSelect().
		Model(feedState).
		Where("apartment_id = ?", apartmentModel.ID).
		Scan(context.Background())
	if err != nil {
		// never fetched successfully before
		feedState = &model.FeedState{
			ApartmentID: apartmentModel.ID,
			URL:         apartmentModel.IcalURL,
		}
	}
	feedState.LastError = cause.Error()
	if err := feedState.Upsert(context.Background(), as.BunDB); err != nil {
		slog.Warn("feed refresh: can't record failure", "apartment", apartmentModel.Slug, "error", err)
	}
}
