// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/rewardkit/internal/health"
)

// RateLimitConfig bounds requests per client IP on the debug server.
type RateLimitConfig struct {
	RequestLimit int
	WindowSize   time.Duration
}

// DefaultRateLimit allows 120 requests per minute per IP.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestLimit: 120, WindowSize: time.Minute}
}

// NewDebugRouter serves /metrics, /healthz and /readyz.
func NewDebugRouter(hm *health.Manager, rl RateLimitConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(rateLimit(rl))
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", hm.ServeHealth)
	r.Get("/readyz", hm.ServeReady)
	return r
}

func rateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.RequestLimit,
		cfg.WindowSize,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(cfg.WindowSize.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded"}`))
		}),
	)
}
