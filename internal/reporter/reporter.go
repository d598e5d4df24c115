// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package reporter turns lifecycle outcomes into analytics events and delivers
// them fire-and-forget.
package reporter

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/rewardkit/internal/clock"
	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	rklog "github.com/ManuGH/rewardkit/internal/log"
	"github.com/ManuGH/rewardkit/internal/metrics"
	"github.com/ManuGH/rewardkit/internal/resilience"
	"github.com/ManuGH/rewardkit/internal/worker"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 10 * time.Second

// Delivery results recorded in metrics.
const (
	ResultSent    = "sent"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// Options configures a Reporter. Limiter and Breaker are optional.
type Options struct {
	Clock   clock.Clock
	Limiter *rate.Limiter
	Breaker *resilience.CircuitBreaker
	Timeout time.Duration
	Logger  *zerolog.Logger
}

// Reporter sends events through an EventSink on background workers.
// Delivery is never retried and its outcome never reaches the caller.
type Reporter struct {
	sink    ports.EventSink
	clock   clock.Clock
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	timeout time.Duration
	logger  zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	workers worker.Registry
}

func New(sink ports.EventSink, opts Options) *Reporter {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := rklog.WithComponent("reporter")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Reporter{
		sink:    sink,
		clock:   opts.Clock,
		limiter: opts.Limiter,
		breaker: opts.Breaker,
		timeout: opts.Timeout,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Report stamps an event with the current UTC time and hands it off for
// delivery. It returns immediately.
func (r *Reporter) Report(adID, requesterID string, eventType model.EventType, watchSeconds float64) {
	logger := r.logger.With().
		Str(rklog.FieldAdID, adID).
		Str(rklog.FieldPackageName, requesterID).
		Str(rklog.FieldEventType, string(eventType)).
		Logger()

	if adID == "" {
		logger.Warn().Msg("event without ad id, not reporting")
		metrics.RecordEvent(string(eventType), ResultDropped)
		return
	}

	ev := model.NewEvent(adID, requesterID, eventType, watchSeconds, r.clock.Now())
	if eventType.IsTerminal() {
		metrics.ObserveWatchDuration(string(eventType), ev.Details.WatchDuration)
	}

	if !r.workers.Go(func() { r.deliver(logger, ev) }) {
		logger.Debug().Msg("reporter closed, dropping event")
		metrics.RecordEvent(string(eventType), ResultDropped)
	}
}

func (r *Reporter) deliver(logger zerolog.Logger, ev model.Event) {
	eventType := string(ev.Details.EventType)

	if r.limiter != nil && !r.limiter.Allow() {
		logger.Warn().Msg("event budget exhausted, dropping event")
		metrics.RecordEvent(eventType, ResultDropped)
		return
	}

	send := func() error {
		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		defer cancel()
		return r.sink.SendEvent(ctx, ev)
	}

	var err error
	if r.breaker != nil {
		err = r.breaker.Execute(send)
	} else {
		err = send()
	}

	switch {
	case err == nil:
		metrics.RecordEvent(eventType, ResultSent)
		logger.Debug().Float64(rklog.FieldWatchDuration, ev.Details.WatchDuration).Msg("event sent")
	case errors.Is(err, resilience.ErrCircuitOpen):
		metrics.RecordEvent(eventType, ResultDropped)
		logger.Debug().Msg("event sink unhealthy, dropping event")
	default:
		metrics.RecordEvent(eventType, ResultFailed)
		logger.Warn().Err(err).Msg("event delivery failed")
	}
}

// Close waits for deliveries in progress, bounded by ctx. Events reported
// afterwards are dropped.
func (r *Reporter) Close(ctx context.Context) error {
	err := r.workers.CloseAndWait(ctx)
	r.cancel()
	return err
}
