// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads rewardkit configuration with precedence
// ENV > YAML file > defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultLogLevel    = "info"
	DefaultLogService  = "rewardkit"
	DefaultBaseURL     = "http://localhost:8080"
	DefaultUserAgent   = "rewardkit"
	DefaultDebugListen = "127.0.0.1:9464"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. An empty configPath skips the file layer.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

// Load merges defaults, the file and the environment, then validates.
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}
	setDefaults(&cfg)

	if l.configPath != "" {
		fileCfg, err := loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() AppConfig {
	var cfg AppConfig
	setDefaults(&cfg)
	return cfg
}

func setDefaults(cfg *AppConfig) {
	cfg.LogLevel = DefaultLogLevel
	cfg.LogService = DefaultLogService

	cfg.Server = ServerConfig{
		BaseURL:   DefaultBaseURL,
		Timeout:   10 * time.Second,
		RateLimit: 5,
		RateBurst: 10,
		UserAgent: DefaultUserAgent,
	}
	cfg.Preload = PreloadConfig{
		EmptyBackoff:   2 * time.Second,
		FailureBackoff: 5 * time.Second,
		FetchTimeout:   10 * time.Second,
	}
	cfg.Events = EventsConfig{
		Timeout:          10 * time.Second,
		RateLimit:        20,
		RateBurst:        40,
		BreakerThreshold: 5,
		BreakerReset:     30 * time.Second,
	}
	cfg.Telemetry = TelemetryConfig{
		Exporter:   "grpc",
		Endpoint:   "localhost:4317",
		SampleRate: 1.0,
	}
	cfg.Debug = DebugConfig{ListenAddr: DefaultDebugListen}
}

// loadFile parses a YAML file strictly: unknown keys are an error.
func loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	setString(&dst.LogLevel, src.LogLevel)
	setString(&dst.LogService, src.LogService)
	setString(&dst.PackageName, src.PackageName)

	setString(&dst.Server.BaseURL, src.Server.BaseURL)
	setString(&dst.Server.UserAgent, src.Server.UserAgent)
	setPtr(&dst.Server.RateLimit, src.Server.RateLimit)
	setPtr(&dst.Server.RateBurst, src.Server.RateBurst)

	setPtr(&dst.Events.RateLimit, src.Events.RateLimit)
	setPtr(&dst.Events.RateBurst, src.Events.RateBurst)
	setPtr(&dst.Events.BreakerThreshold, src.Events.BreakerThreshold)

	setPtr(&dst.Telemetry.Enabled, src.Telemetry.Enabled)
	setString(&dst.Telemetry.Exporter, src.Telemetry.Exporter)
	setString(&dst.Telemetry.Endpoint, src.Telemetry.Endpoint)
	setPtr(&dst.Telemetry.SampleRate, src.Telemetry.SampleRate)

	setPtr(&dst.Debug.ListenAddr, src.Debug.ListenAddr)

	durations := []struct {
		field string
		raw   string
		dst   *time.Duration
	}{
		{"server.timeout", src.Server.Timeout, &dst.Server.Timeout},
		{"preload.emptyBackoff", src.Preload.EmptyBackoff, &dst.Preload.EmptyBackoff},
		{"preload.failureBackoff", src.Preload.FailureBackoff, &dst.Preload.FailureBackoff},
		{"preload.fetchTimeout", src.Preload.FetchTimeout, &dst.Preload.FetchTimeout},
		{"events.timeout", src.Events.Timeout, &dst.Events.Timeout},
		{"events.breakerReset", src.Events.BreakerReset, &dst.Events.BreakerReset},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", d.field, d.raw, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)
	cfg.LogService = l.envString(EnvLogService, cfg.LogService)
	cfg.PackageName = l.envString(EnvPackageName, cfg.PackageName)

	cfg.Server.BaseURL = l.envString(EnvServerBaseURL, cfg.Server.BaseURL)
	cfg.Server.Timeout = l.envDuration(EnvServerTimeout, cfg.Server.Timeout)
	cfg.Server.RateLimit = l.envFloat(EnvServerRateLimit, cfg.Server.RateLimit)
	cfg.Server.RateBurst = l.envInt(EnvServerRateBurst, cfg.Server.RateBurst)
	cfg.Server.UserAgent = l.envString(EnvServerUserAgent, cfg.Server.UserAgent)

	cfg.Preload.EmptyBackoff = l.envDuration(EnvPreloadEmptyBackoff, cfg.Preload.EmptyBackoff)
	cfg.Preload.FailureBackoff = l.envDuration(EnvPreloadFailureBackoff, cfg.Preload.FailureBackoff)
	cfg.Preload.FetchTimeout = l.envDuration(EnvPreloadFetchTimeout, cfg.Preload.FetchTimeout)

	cfg.Events.Timeout = l.envDuration(EnvEventsTimeout, cfg.Events.Timeout)
	cfg.Events.RateLimit = l.envFloat(EnvEventsRateLimit, cfg.Events.RateLimit)
	cfg.Events.RateBurst = l.envInt(EnvEventsRateBurst, cfg.Events.RateBurst)
	cfg.Events.BreakerThreshold = l.envInt(EnvEventsBreakerThreshold, cfg.Events.BreakerThreshold)
	cfg.Events.BreakerReset = l.envDuration(EnvEventsBreakerReset, cfg.Events.BreakerReset)

	cfg.Telemetry.Enabled = l.envBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString(EnvTelemetryExporter, cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString(EnvTelemetryEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SampleRate = l.envFloat(EnvTelemetrySampleRate, cfg.Telemetry.SampleRate)

	// an explicitly empty value disables the listener
	if v, ok := os.LookupEnv(EnvDebugListen); ok {
		l.ConsumedEnvKeys[EnvDebugListen] = struct{}{}
		cfg.Debug.ListenAddr = strings.TrimSpace(v)
	}
}

func setString(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
