// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"time"

	"github.com/ManuGH/rewardkit/internal/validate"
)

// Validate checks the merged configuration and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("logLevel", "must be one of trace, debug, info, warn, error", cfg.LogLevel)
	}
	v.NotEmpty("logService", cfg.LogService)
	if cfg.PackageName != "" {
		v.PackageName("packageName", cfg.PackageName)
	}

	v.URL("server.baseUrl", cfg.Server.BaseURL, []string{"http", "https"})
	v.DurationRange("server.timeout", cfg.Server.Timeout, 100*time.Millisecond, 2*time.Minute)
	v.FloatRange("server.rateLimit", cfg.Server.RateLimit, 0.1, 1000)
	v.Range("server.rateBurst", cfg.Server.RateBurst, 1, 1000)

	v.DurationRange("preload.emptyBackoff", cfg.Preload.EmptyBackoff, 100*time.Millisecond, 10*time.Minute)
	v.DurationRange("preload.failureBackoff", cfg.Preload.FailureBackoff, 100*time.Millisecond, 10*time.Minute)
	v.DurationRange("preload.fetchTimeout", cfg.Preload.FetchTimeout, 100*time.Millisecond, 2*time.Minute)

	v.DurationRange("events.timeout", cfg.Events.Timeout, 100*time.Millisecond, 2*time.Minute)
	v.FloatRange("events.rateLimit", cfg.Events.RateLimit, 0.1, 1000)
	v.Range("events.rateBurst", cfg.Events.RateBurst, 1, 1000)
	v.Range("events.breakerThreshold", cfg.Events.BreakerThreshold, 1, 100)
	v.DurationRange("events.breakerReset", cfg.Events.BreakerReset, time.Second, time.Hour)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.sampleRate", cfg.Telemetry.SampleRate, 0, 1)
	}

	if cfg.Debug.ListenAddr != "" {
		v.ListenAddr("debug.listenAddr", cfg.Debug.ListenAddr)
	}

	return v.Err()
}
