package utils

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	port string

	location      *time.Location
	defaultLocale string

	calendarUpdateInterval   time.Duration
	fetchTimeout             time.Duration
	metricCollectionInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		port: func() string {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			slog.Debug("env", "PORT", port)
			return port
		}(),

		location: func() *time.Location {
			timezoneStr := os.Getenv("TIMEZONE")
			var loc *time.Location
			var err error
			switch timezoneStr {
			case "":
				slog.Warn("TIMEZONE is not set, using local timezone", "timezone", time.Local)
				loc = time.Local
			case "UTC":
				loc = time.UTC
			default:
				loc, err = time.LoadLocation(timezoneStr)
				if err != nil {
					slog.Error("invalid timezone", "timezone", timezoneStr, "error", err)
					os.Exit(1)
				}
			}
			slog.Debug("env", "TIMEZONE", timezoneStr)
			return loc
		}(),
		defaultLocale: func() string {
			defaultLocale := os.Getenv("DEFAULT_LOCALE")
			if defaultLocale == "" {
				defaultLocale = "en"
			}
			slog.Debug("env", "DEFAULT_LOCALE", defaultLocale)
			return defaultLocale
		}(),

		calendarUpdateInterval: func() time.Duration {
			calendarUpdateInterval := os.Getenv("CALENDAR_UPDATE_INTERVAL")
			if calendarUpdateInterval == "" {
				// iCal feeds update infrequently and providers rate-limit
				calendarUpdateInterval = "10m"
			}
			duration, err := time.ParseDuration(calendarUpdateInterval)
			if err != nil {
				slog.Error("invalid CALENDAR_UPDATE_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "CALENDAR_UPDATE_INTERVAL", calendarUpdateInterval, "duration", duration)
			return duration
		}(),
		fetchTimeout: func() time.Duration {
			fetchTimeout := os.Getenv("FETCH_TIMEOUT")
			if fetchTimeout == "" {
				fetchTimeout = "15s"
			}
			duration, err := time.ParseDuration(fetchTimeout)
			if err != nil {
				slog.Error("invalid FETCH_TIMEOUT", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "FETCH_TIMEOUT", fetchTimeout, "duration", duration)
			return duration
		}(),
		metricCollectionInterval: func() time.Duration {
			metricCollectionInterval := os.Getenv("METRIC_COLLECTION_INTERVAL")
			if metricCollectionInterval == "" {
				metricCollectionInterval = "15s"
			}
			duration, err := time.ParseDuration(metricCollectionInterval)
			if err != nil {
				slog.Error("invalid METRIC_COLLECTION_INTERVAL", "error", err)
				os.Exit(1)
			}
			slog.Debug("env", "METRIC_COLLECTION_INTERVAL", metricCollectionInterval, "duration", duration)
			return duration
		}(),
	}
}

// Get PORT env, default to 8080
func (c *Config) GetPort() string {
	return c.port
}

// Get TIMEZONE env, the site's display timezone
func (c *Config) GetLocation() *time.Location {
	return c.location
}

// Get DEFAULT_LOCALE env, default to "en"
func (c *Config) GetDefaultLocale() string {
	return c.defaultLocale
}

// Get CALENDAR_UPDATE_INTERVAL env, default to 10m
func (c *Config) GetCalendarUpdateInterval() time.Duration {
	return c.calendarUpdateInterval
}

// Get FETCH_TIMEOUT env, default to 15s
func (c *Config) GetFetchTimeout() time.Duration {
	return c.fetchTimeout
}

// Get METRIC_COLLECTION_INTERVAL env, default to 15s
func (c *Config) GetMetricCollectionInterval() time.Duration {
	return c.metricCollectionInterval
}
