// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import "time"

// AppConfig is the effective configuration after defaults, file and
// environment have been merged.
type AppConfig struct {
	Version     string
	LogLevel    string
	LogService  string
	PackageName string

	Server    ServerConfig
	Preload   PreloadConfig
	Events    EventsConfig
	Telemetry TelemetryConfig
	Debug     DebugConfig
}

// ServerConfig addresses the remote ad server.
type ServerConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	UserAgent string
}

// PreloadConfig tunes the background prefetch.
type PreloadConfig struct {
	EmptyBackoff   time.Duration
	FailureBackoff time.Duration
	FetchTimeout   time.Duration
}

// EventsConfig tunes analytics delivery.
type EventsConfig struct {
	Timeout          time.Duration
	RateLimit        float64
	RateBurst        int
	BreakerThreshold int
	BreakerReset     time.Duration
}

type TelemetryConfig struct {
	Enabled    bool
	Exporter   string
	Endpoint   string
	SampleRate float64
}

// DebugConfig controls the metrics and health listener. Empty disables it.
type DebugConfig struct {
	ListenAddr string
}

// FileConfig mirrors the YAML file. Pointers distinguish "unset" from zero.
type FileConfig struct {
	LogLevel    string `yaml:"logLevel,omitempty"`
	LogService  string `yaml:"logService,omitempty"`
	PackageName string `yaml:"packageName,omitempty"`

	Server    ServerFileConfig    `yaml:"server,omitempty"`
	Preload   PreloadFileConfig   `yaml:"preload,omitempty"`
	Events    EventsFileConfig    `yaml:"events,omitempty"`
	Telemetry TelemetryFileConfig `yaml:"telemetry,omitempty"`
	Debug     DebugFileConfig     `yaml:"debug,omitempty"`
}

type ServerFileConfig struct {
	BaseURL   string   `yaml:"baseUrl,omitempty"`
	Timeout   string   `yaml:"timeout,omitempty"`
	RateLimit *float64 `yaml:"rateLimit,omitempty"`
	RateBurst *int     `yaml:"rateBurst,omitempty"`
	UserAgent string   `yaml:"userAgent,omitempty"`
}

type PreloadFileConfig struct {
	EmptyBackoff   string `yaml:"emptyBackoff,omitempty"`
	FailureBackoff string `yaml:"failureBackoff,omitempty"`
	FetchTimeout   string `yaml:"fetchTimeout,omitempty"`
}

type EventsFileConfig struct {
	Timeout          string   `yaml:"timeout,omitempty"`
	RateLimit        *float64 `yaml:"rateLimit,omitempty"`
	RateBurst        *int     `yaml:"rateBurst,omitempty"`
	BreakerThreshold *int     `yaml:"breakerThreshold,omitempty"`
	BreakerReset     string   `yaml:"breakerReset,omitempty"`
}

type TelemetryFileConfig struct {
	Enabled    *bool    `yaml:"enabled,omitempty"`
	Exporter   string   `yaml:"exporter,omitempty"`
	Endpoint   string   `yaml:"endpoint,omitempty"`
	SampleRate *float64 `yaml:"sampleRate,omitempty"`
}

type DebugFileConfig struct {
	ListenAddr *string `yaml:"listenAddr,omitempty"`
}
