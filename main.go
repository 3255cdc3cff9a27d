package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solmar/src-server/localize"
	"solmar/src-server/metric"
	"solmar/src-server/model"
	"solmar/src-server/routes"
	"solmar/src-server/scheduler"
	"solmar/src-server/store"
	"solmar/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	// one localization service for the whole process, injected where needed
	localizer := localize.NewService(as.Config.GetDefaultLocale())
	contentStore := store.NewBunStore(as.BunDB)

	// load operator overrides saved by earlier runs
	if content, err := contentStore.Load(context.Background()); err != nil {
		slog.Warn("can't load saved content", "error", err)
	} else {
		for _, entry := range content.Entries {
			localizer.Apply(entry.Locale, localize.Key(entry.Key), entry.Value)
		}
	}

	go metric.Init(as)
	go scheduler.FeedRefresh(as)

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		routes.Proxy(muxer, as)
		routes.Apartments(muxer, as)
		routes.Availability(muxer, as)
		routes.Content(muxer, as, contentStore, localizer)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit")

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}
