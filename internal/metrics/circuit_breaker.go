// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TripReason labels why a breaker opened.
type TripReason string

const (
	TripThreshold   TripReason = "threshold_exceeded"
	TripProbeFailed TripReason = "half_open_failure"
)

var breakerStates = []string{"closed", "half-open", "open"}

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "rewardkit_circuit_breaker_state",
		Help: "Active circuit breaker state per breaker (1 for the current state)",
	}, []string{"breaker", "state"})

	breakerTrips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardkit_circuit_breaker_trips_total",
		Help: "Transitions into the open state",
	}, []string{"breaker", "reason"})

	breakerRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rewardkit_circuit_breaker_rejected_total",
		Help: "Calls refused without reaching the remote side",
	}, []string{"breaker"})
)

// SetCircuitBreakerState marks state as the only active state of breaker.
func SetCircuitBreakerState(breaker, state string) {
	for _, s := range breakerStates {
		v := 0.0
		if s == state {
			v = 1
		}
		breakerState.WithLabelValues(breaker, s).Set(v)
	}
}

func RecordCircuitBreakerTrip(breaker string, reason TripReason) {
	breakerTrips.WithLabelValues(breaker, string(reason)).Inc()
}

func RecordCircuitBreakerRejected(breaker string) {
	breakerRejected.WithLabelValues(breaker).Inc()
}
