// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false, ExporterType: "grpc"})
	require.NoError(t, err)
	assert.Nil(t, provider.tp)

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	assert.False(t, span.IsRecording(), "disabled tracing installs a noop provider")
	span.End()

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_InvalidExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ExporterType: "zipkin"})
	require.Error(t, err)
	assert.Equal(t, "unsupported exporter type: zipkin (supported: grpc, http)", err.Error())
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0.0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased"},
	}
	for _, tt := range tests {
		desc := samplerFor(tt.rate).Description()
		assert.True(t, strings.HasPrefix(desc, tt.want), "rate %v: got %s", tt.rate, desc)
	}
}

func TestProvider_NilShutdown(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, (&Provider{}).Shutdown(ctx))
}

func TestFetchAttributes(t *testing.T) {
	attrs := FetchAttributes("com.example.game", "empty", "")
	assert.Len(t, attrs, 2)

	attrs = FetchAttributes("com.example.game", "ad", "ad-1")
	require.Len(t, attrs, 3)
	assert.Equal(t, AdIDKey, string(attrs[2].Key))
	assert.Equal(t, "ad-1", attrs[2].Value.AsString())
}

func TestEventAttributes(t *testing.T) {
	attrs := EventAttributes("ad-1", "pkg", "skip")
	got := map[string]string{}
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, map[string]string{
		AdIDKey:          "ad-1",
		AdPackageNameKey: "pkg",
		AdEventTypeKey:   "skip",
	}, got)
}
