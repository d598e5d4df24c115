// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package reporter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ManuGH/rewardkit/internal/clock"
	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/resilience"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

type recordingSink struct {
	mu     sync.Mutex
	events []model.Event
	err    error
	calls  int
}

func (s *recordingSink) SendEvent(_ context.Context, ev model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) snapshot() ([]model.Event, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...), s.calls
}

func newTestReporter(sink *recordingSink, opts Options) *Reporter {
	nop := zerolog.Nop()
	opts.Logger = &nop
	if opts.Clock == nil {
		opts.Clock = clock.NewFake(time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.UTC))
	}
	return New(sink, opts)
}

func closeReporter(t *testing.T, r *Reporter) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, r.Close(ctx))
}

func TestReportBuildsTimestampedEvent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := &recordingSink{}
	r := newTestReporter(sink, Options{})

	r.Report("ad-1", "com.example.game", model.EventSkip, 7.25)
	closeReporter(t, r)

	events, _ := sink.snapshot()
	want := []model.Event{{
		AdID:      "ad-1",
		Timestamp: "2026-03-04T05:06:07.891Z",
		Details: model.EventDetails{
			PackageName:   "com.example.game",
			EventType:     model.EventSkip,
			WatchDuration: 7.25,
		},
	}}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestReportWithoutAdIDIsDropped(t *testing.T) {
	sink := &recordingSink{}
	r := newTestReporter(sink, Options{})

	r.Report("", "com.example.game", model.EventView, 3)
	closeReporter(t, r)

	_, calls := sink.snapshot()
	assert.Zero(t, calls)
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	sink := &recordingSink{err: errors.New("502 bad gateway")}
	r := newTestReporter(sink, Options{})

	assert.NotPanics(t, func() {
		r.Report("ad-1", "com.example.game", model.EventExit, 1)
	})
	closeReporter(t, r)

	_, calls := sink.snapshot()
	assert.Equal(t, 1, calls, "failed events are not retried")
}

func TestLimiterDropsOverBudget(t *testing.T) {
	sink := &recordingSink{}
	r := newTestReporter(sink, Options{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)})

	r.Report("ad-1", "pkg", model.EventView, 1)
	r.Report("ad-2", "pkg", model.EventView, 1)
	r.Report("ad-3", "pkg", model.EventView, 1)
	closeReporter(t, r)

	events, _ := sink.snapshot()
	assert.Len(t, events, 1)
}

func TestOpenBreakerDropsEvents(t *testing.T) {
	sink := &recordingSink{err: errors.New("connection refused")}
	clk := clock.NewFake(time.Unix(0, 0))
	cb := resilience.NewCircuitBreaker("test_sink", 1, time.Minute, resilience.WithClock(clk))
	r := newTestReporter(sink, Options{Clock: clk, Breaker: cb})

	r.Report("ad-1", "pkg", model.EventExit, 1)
	require.Eventually(t, func() bool { return cb.State() == resilience.StateOpen }, 2*time.Second, time.Millisecond)

	r.Report("ad-2", "pkg", model.EventExit, 1)
	closeReporter(t, r)

	_, calls := sink.snapshot()
	assert.Equal(t, 1, calls)
}

func TestReportAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{}
	r := newTestReporter(sink, Options{})
	closeReporter(t, r)

	r.Report("ad-1", "pkg", model.EventView, 1)
	_, calls := sink.snapshot()
	assert.Zero(t, calls)
}
