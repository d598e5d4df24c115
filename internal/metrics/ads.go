// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Preload
	preloadFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardkit_preload_fetch_total",
			Help: "Preload fetch completions by outcome (ad, empty, failure, stale).",
		},
		[]string{"outcome"},
	)

	preloadRetryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardkit_preload_retry_scheduled_total",
			Help: "Preload retries scheduled by failure class.",
		},
		[]string{"class"},
	)

	preloadSlotFilled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rewardkit_preload_slot_filled",
			Help: "1 while the preload slot holds an ad.",
		},
	)

	// Controller
	directFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardkit_direct_fetch_total",
			Help: "Direct (non-preloaded) fetch completions by outcome.",
		},
		[]string{"outcome"},
	)

	lifecycleTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardkit_lifecycle_transitions_total",
			Help: "Ad lifecycle state transitions.",
		},
		[]string{"state_from", "state_to"},
	)

	// Events
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardkit_events_total",
			Help: "Analytics events by type and delivery result (sent, failed, dropped).",
		},
		[]string{"type", "result"},
	)

	watchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rewardkit_watch_duration_seconds",
			Help:    "Watched seconds reported with terminal events.",
			Buckets: []float64{1, 2, 5, 10, 15, 30, 60, 120},
		},
		[]string{"type"},
	)
)

// RecordPreloadFetch counts one preload completion.
func RecordPreloadFetch(outcome string) {
	preloadFetchTotal.WithLabelValues(outcome).Inc()
}

// RecordPreloadRetry counts one scheduled retry.
func RecordPreloadRetry(class string) {
	preloadRetryTotal.WithLabelValues(class).Inc()
}

// SetPreloadSlotFilled mirrors the preload slot occupancy.
func SetPreloadSlotFilled(filled bool) {
	if filled {
		preloadSlotFilled.Set(1)
		return
	}
	preloadSlotFilled.Set(0)
}

// RecordDirectFetch counts one direct fetch completion.
func RecordDirectFetch(outcome string) {
	directFetchTotal.WithLabelValues(outcome).Inc()
}

// RecordTransition counts one lifecycle transition.
func RecordTransition(from, to string) {
	lifecycleTransitions.WithLabelValues(from, to).Inc()
}

// RecordEvent counts one analytics event delivery result.
func RecordEvent(eventType, result string) {
	eventsTotal.WithLabelValues(eventType, result).Inc()
}

// ObserveWatchDuration records the duration attached to a terminal event.
func ObserveWatchDuration(eventType string, seconds float64) {
	watchDuration.WithLabelValues(eventType).Observe(seconds)
}

var sourceRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "rewardkit_source_request_duration_seconds",
		Help:    "Ad server request latency by operation and result.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"operation", "result"},
)

func ObserveSourceRequest(operation, result string, d time.Duration) {
	sourceRequestDuration.WithLabelValues(operation, result).Observe(d.Seconds())
}
