// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/rewardkit/internal/log"
	"github.com/rs/zerolog"
)

// Environment variable names. Every key is prefixed with REWARDKIT_.
const (
	EnvLogLevel    = "REWARDKIT_LOG_LEVEL"
	EnvLogService  = "REWARDKIT_LOG_SERVICE"
	EnvPackageName = "REWARDKIT_PACKAGE_NAME"

	EnvServerBaseURL   = "REWARDKIT_SERVER_BASE_URL"
	EnvServerTimeout   = "REWARDKIT_SERVER_TIMEOUT"
	EnvServerRateLimit = "REWARDKIT_SERVER_RATE_LIMIT"
	EnvServerRateBurst = "REWARDKIT_SERVER_RATE_BURST"
	EnvServerUserAgent = "REWARDKIT_SERVER_USER_AGENT"

	EnvPreloadEmptyBackoff   = "REWARDKIT_PRELOAD_EMPTY_BACKOFF"
	EnvPreloadFailureBackoff = "REWARDKIT_PRELOAD_FAILURE_BACKOFF"
	EnvPreloadFetchTimeout   = "REWARDKIT_PRELOAD_FETCH_TIMEOUT"

	EnvEventsTimeout          = "REWARDKIT_EVENTS_TIMEOUT"
	EnvEventsRateLimit        = "REWARDKIT_EVENTS_RATE_LIMIT"
	EnvEventsRateBurst        = "REWARDKIT_EVENTS_RATE_BURST"
	EnvEventsBreakerThreshold = "REWARDKIT_EVENTS_BREAKER_THRESHOLD"
	EnvEventsBreakerReset     = "REWARDKIT_EVENTS_BREAKER_RESET"

	EnvTelemetryEnabled    = "REWARDKIT_TELEMETRY_ENABLED"
	EnvTelemetryExporter   = "REWARDKIT_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint   = "REWARDKIT_TELEMETRY_ENDPOINT"
	EnvTelemetrySampleRate = "REWARDKIT_TELEMETRY_SAMPLE_RATE"

	EnvDebugListen = "REWARDKIT_DEBUG_LISTEN"
)

// ParseString reads a string from the environment or returns defaultValue.
// It logs the source (environment or default) for observability.
func ParseString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		logger.Debug().Str("key", key).Str("value", v).Str("source", "environment").Msg("using environment variable")
		return v
	}
	return defaultValue
}

// ParseInt reads an integer from the environment. Invalid values fall back to
// defaultValue with a warning.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, strconv.Atoi)
}

// ParseFloat reads a float64 from the environment.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// ParseDuration reads a duration in Go format (e.g. "5s").
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, time.ParseDuration)
}

// ParseBool accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, strconv.ErrSyntax
	})
}

func parseEnv[T any](key string, defaultValue T, parse func(string) (T, error)) T {
	return parseEnvWithLogger(log.WithComponent("config"), key, defaultValue, parse)
}

func parseEnvWithLogger[T any](logger zerolog.Logger, key string, defaultValue T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return defaultValue
	}
	parsed, err := parse(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Interface("default", defaultValue).
			Msg("invalid value in environment variable, using default")
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Interface("value", parsed).
		Str("source", "environment").
		Msg("using environment variable")
	return parsed
}
