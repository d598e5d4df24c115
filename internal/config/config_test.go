// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/rewardkit/internal/validate"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	want := Defaults()
	want.Version = "v1.2.3"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2*time.Second, cfg.Preload.EmptyBackoff)
	assert.Equal(t, 5*time.Second, cfg.Preload.FailureBackoff)
}

func TestLoadFile(t *testing.T) {
	cfg, err := NewLoader("testdata/rewardkit.yaml", "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "com.example.game", cfg.PackageName)
	assert.Equal(t, "https://ads.example.com/api/", cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 4, cfg.Server.RateBurst)
	assert.Equal(t, float64(5), cfg.Server.RateLimit, "unset keys keep defaults")
	assert.Equal(t, time.Second, cfg.Preload.EmptyBackoff)
	assert.Equal(t, 8*time.Second, cfg.Preload.FailureBackoff)
	assert.Equal(t, 2.5, cfg.Events.RateLimit)
	assert.Equal(t, 3, cfg.Events.BreakerThreshold)
	assert.Equal(t, time.Minute, cfg.Events.BreakerReset)
	assert.Equal(t, TelemetryConfig{Enabled: true, Exporter: "http", Endpoint: "otel-collector:4318", SampleRate: 0.25}, cfg.Telemetry)
	assert.Equal(t, ":9500", cfg.Debug.ListenAddr)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvPreloadEmptyBackoff, "3s")
	t.Setenv(EnvServerRateBurst, "7")
	t.Setenv(EnvTelemetryEnabled, "no")
	t.Setenv(EnvDebugListen, "")

	l := NewLoader("testdata/rewardkit.yaml", "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Preload.EmptyBackoff)
	assert.Equal(t, 8*time.Second, cfg.Preload.FailureBackoff)
	assert.Equal(t, 7, cfg.Server.RateBurst)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Empty(t, cfg.Debug.ListenAddr, "empty env disables the debug listener")
	assert.Contains(t, l.ConsumedEnvKeys, EnvPreloadFailureBackoff)
}

func TestInvalidEnvFallsBackToFileValue(t *testing.T) {
	t.Setenv(EnvPreloadFailureBackoff, "soon")
	cfg, err := NewLoader("testdata/rewardkit.yaml", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, cfg.Preload.FailureBackoff)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := NewLoader("testdata/unknown_key.yaml", "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict config parse error")
	assert.Contains(t, err.Error(), "retries")
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	badDuration := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badDuration, []byte("preload:\n  emptyBackoff: twice\n"), 0o600))
	_, err := NewLoader(badDuration, "dev").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preload.emptyBackoff")

	multiDoc := filepath.Join(dir, "multi.yaml")
	require.NoError(t, os.WriteFile(multiDoc, []byte("logLevel: info\n---\nlogLevel: debug\n"), 0o600))
	_, err = NewLoader(multiDoc, "dev").Load()
	assert.ErrorContains(t, err, "multiple documents")

	_, err = NewLoader(filepath.Join(dir, "config.json"), "dev").Load()
	assert.ErrorContains(t, err, "only YAML supported")

	_, err = NewLoader(filepath.Join(dir, "missing.yaml"), "dev").Load()
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing here\n"), 0o600))
	_, err = NewLoader(empty, "dev").Load()
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))

	cfg.LogLevel = "loud"
	cfg.PackageName = "com example"
	cfg.Server.BaseURL = "ads.example.com"
	cfg.Preload.EmptyBackoff = 0
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "zipkin"
	cfg.Debug.ListenAddr = "nope"

	err := Validate(cfg)
	require.Error(t, err)

	var verr validate.ValidationError
	require.True(t, errors.As(err, &verr))
	fields := map[string]bool{}
	for _, e := range verr.Errors() {
		fields[e.Field] = true
	}
	for _, f := range []string{"logLevel", "packageName", "server.baseUrl", "preload.emptyBackoff", "telemetry.exporter", "debug.listenAddr"} {
		assert.True(t, fields[f], "expected error for %s", f)
	}
}
