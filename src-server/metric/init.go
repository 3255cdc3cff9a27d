package metric

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"solmar/src-server/utils"
)

func feedFetchLatency(as *utils.AppState, clearTickerInterval *time.Duration) {
	feedFetchLatency := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solmar_feed_fetch_microsec",
		Help: "The latency of the last calendar feed fetch in microseconds",
	})
	good := true
	if err := prometheus.Register(feedFetchLatency); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register solmar_feed_fetch_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("solmar_feed_fetch_microsec metric registered")
		feedFetchLatency.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(feedFetchLatency) {
				case true:
					slog.Debug("solmar_feed_fetch_microsec metric unregistered")
				case false:
					slog.Warn("solmar_feed_fetch_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.FeedFetch:
				feedFetchLatency.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				feedFetchLatency.Set(0)
			}
		}
	}()
}

func feedErrors(as *utils.AppState) {
	feedErrors := promauto.NewCounter(prometheus.CounterOpts{
		Name: "solmar_feed_errors_total",
		Help: "Count of failed calendar feed fetches and parses",
	})
	if err := prometheus.Register(feedErrors); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register solmar_feed_errors_total metric", "error", err)
			return
		}
	}
	slog.Debug("solmar_feed_errors_total metric registered")
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(feedErrors) {
				case true:
					slog.Debug("solmar_feed_errors_total metric unregistered")
				case false:
					slog.Warn("solmar_feed_errors_total metric not registered")
				}
				return
			case <-as.MetricChans.FeedError:
				feedErrors.Inc()
			}
		}
	}()
}

func databaseRead(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solmar_database_read_microsec",
		Help: "The latency of an availability database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register solmar_database_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("solmar_database_read_microsec metric registered")
		databaseRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseRead) {
				case true:
					slog.Debug("solmar_database_read_microsec metric unregistered")
				case false:
					slog.Warn("solmar_database_read_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseRead:
				databaseRead.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseRead.Set(0)
			}
		}
	}()
}

func databaseWrite(as *utils.AppState, clearTickerInterval *time.Duration) {
	databaseWrite := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solmar_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseWrite); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register solmar_database_write_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("solmar_database_write_microsec metric registered")
		databaseWrite.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		clearTicker := time.NewTicker(*clearTickerInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseWrite) {
				case true:
					slog.Debug("solmar_database_write_microsec metric unregistered")
				case false:
					slog.Warn("solmar_database_write_microsec metric not registered")
				}
				return
			case latency := <-as.MetricChans.DatabaseWrite:
				databaseWrite.Set(latency)
				clearTicker.Reset(*clearTickerInterval)
			case <-clearTicker.C:
				databaseWrite.Set(0)
			}
		}
	}()
}

func databaseEmptyRead(as *utils.AppState, tickerInterval *time.Duration) {
	databaseEmptyRead := promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solmar_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	})
	good := true
	if err := prometheus.Register(databaseEmptyRead); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
			slog.Error("can't register solmar_database_empty_read_microsec metric", "error", err)
			good = false
		}
	}
	if good {
		slog.Debug("solmar_database_empty_read_microsec metric registered")
		databaseEmptyRead.Set(0)
	}
	go func() {
		gracefulShutdownCh := as.CreateGracefulShutdownChan()
		ticker := time.NewTicker(*tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				switch prometheus.Unregister(databaseEmptyRead) {
				case true:
					slog.Debug("solmar_database_empty_read_microsec metric unregistered")
				case false:
					slog.Warn("solmar_database_empty_read_microsec metric not registered")
				}
				return
			case <-ticker.C:
				start := time.Now()
				if _, err := as.BunDB.NewSelect().
					Table("apartments").
					Count(context.Background()); err != nil {
					slog.Error("can't measure database latency", "error", err)
					continue
				}
				databaseEmptyRead.Set(float64(time.Since(start).Microseconds()))
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := as.Config.GetMetricCollectionInterval() * 2

	feedFetchLatency(as, &clearTickerInterval)
	feedErrors(as)
	databaseRead(as, &clearTickerInterval)
	databaseWrite(as, &clearTickerInterval)
	databaseEmptyRead(as, &tickerInterval)
}
