// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package adsdk is the host-facing API of rewardkit: it wires the ad source,
// the preload cache, the event reporter and the lifecycle controller of one
// ad session. There is no global state; hosts own the *SDK they build.
package adsdk

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ManuGH/rewardkit/internal/adsource"
	"github.com/ManuGH/rewardkit/internal/clock"
	"github.com/ManuGH/rewardkit/internal/config"
	"github.com/ManuGH/rewardkit/internal/domain/ad/controller"
	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	"github.com/ManuGH/rewardkit/internal/health"
	rklog "github.com/ManuGH/rewardkit/internal/log"
	"github.com/ManuGH/rewardkit/internal/preload"
	"github.com/ManuGH/rewardkit/internal/reporter"
	"github.com/ManuGH/rewardkit/internal/resilience"
)

type (
	Ad           = model.Ad
	AdDetails    = model.AdDetails
	Event        = model.Event
	EventType    = model.EventType
	State        = model.State
	Callbacks    = controller.Callbacks
	Surface      = ports.Surface
	Signals      = ports.Signals
	Presentation = ports.Presentation
	AdSource     = ports.AdSource
	EventSink    = ports.EventSink
	Clock        = clock.Clock
)

const (
	StateIdle       = model.StateIdle
	StateAcquiring  = model.StateAcquiring
	StateReady      = model.StateReady
	StateDisplaying = model.StateDisplaying

	EventView  = model.EventView
	EventClick = model.EventClick
	EventSkip  = model.EventSkip
	EventExit  = model.EventExit
)

var (
	ErrNoAd              = controller.ErrNoAd
	ErrNoSurface         = controller.ErrNoSurface
	ErrAlreadyDisplaying = controller.ErrAlreadyDisplaying
	ErrInvalidRequester  = controller.ErrInvalidRequester
	ErrClosed            = controller.ErrClosed
	// ErrNoAdAvailable is what an AdSource returns when the server has nothing to serve.
	ErrNoAdAvailable = ports.ErrNoAd
)

const (
	defaultEventRateLimit   = 20
	defaultEventRateBurst   = 40
	defaultBreakerThreshold = 5
	defaultBreakerReset     = 30 * time.Second
)

// Options assembles an SDK from explicit collaborators. Source and Sink are
// required; zero values select defaults for everything else.
type Options struct {
	Source AdSource
	Sink   EventSink
	Clock  Clock

	EmptyBackoff   time.Duration
	FailureBackoff time.Duration
	FetchTimeout   time.Duration

	EventTimeout     time.Duration
	EventRateLimit   float64
	EventRateBurst   int
	BreakerThreshold int
	BreakerReset     time.Duration

	Logger *zerolog.Logger
}

// SDK is one ad session of a host application.
type SDK struct {
	ctrl     *controller.Controller
	preload  *preload.Cache
	reporter *reporter.Reporter
	breaker  *resilience.CircuitBreaker

	closeOnce sync.Once
	closeErr  error
}

// New builds an SDK. Nothing is fetched until Init.
func New(opts Options) (*SDK, error) {
	if opts.Source == nil || opts.Sink == nil {
		return nil, errors.New("adsdk: source and sink are required")
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.EventRateLimit <= 0 {
		opts.EventRateLimit = defaultEventRateLimit
	}
	if opts.EventRateBurst <= 0 {
		opts.EventRateBurst = defaultEventRateBurst
	}
	if opts.BreakerThreshold <= 0 {
		opts.BreakerThreshold = defaultBreakerThreshold
	}
	if opts.BreakerReset <= 0 {
		opts.BreakerReset = defaultBreakerReset
	}

	component := func(name string) *zerolog.Logger {
		var l zerolog.Logger
		if opts.Logger != nil {
			l = opts.Logger.With().Str(rklog.FieldComponent, name).Logger()
		} else {
			l = rklog.WithComponent(name)
		}
		return &l
	}

	cache := preload.New(opts.Source, preload.Options{
		Clock:          opts.Clock,
		EmptyBackoff:   opts.EmptyBackoff,
		FailureBackoff: opts.FailureBackoff,
		FetchTimeout:   opts.FetchTimeout,
		Logger:         component("preload"),
	})

	breaker := resilience.NewCircuitBreaker("event_sink", opts.BreakerThreshold, opts.BreakerReset,
		resilience.WithClock(opts.Clock))
	rep := reporter.New(opts.Sink, reporter.Options{
		Clock:   opts.Clock,
		Limiter: rate.NewLimiter(rate.Limit(opts.EventRateLimit), opts.EventRateBurst),
		Breaker: breaker,
		Timeout: opts.EventTimeout,
		Logger:  component("reporter"),
	})

	ctrl, err := controller.New(controller.Options{
		Preload:      cache,
		Source:       opts.Source,
		Reporter:     rep,
		Clock:        opts.Clock,
		FetchTimeout: opts.FetchTimeout,
		Logger:       component("controller"),
	})
	if err != nil {
		return nil, err
	}

	return &SDK{ctrl: ctrl, preload: cache, reporter: rep, breaker: breaker}, nil
}

// NewFromConfig builds an SDK talking HTTP to cfg.Server.BaseURL.
func NewFromConfig(cfg config.AppConfig) (*SDK, error) {
	client, err := adsource.New(adsource.Config{
		BaseURL:   cfg.Server.BaseURL,
		Timeout:   cfg.Server.Timeout,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		UserAgent: cfg.Server.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("adsdk: %w", err)
	}
	return New(Options{
		Source:           client,
		Sink:             client,
		EmptyBackoff:     cfg.Preload.EmptyBackoff,
		FailureBackoff:   cfg.Preload.FailureBackoff,
		FetchTimeout:     cfg.Preload.FetchTimeout,
		EventTimeout:     cfg.Events.Timeout,
		EventRateLimit:   cfg.Events.RateLimit,
		EventRateBurst:   cfg.Events.RateBurst,
		BreakerThreshold: cfg.Events.BreakerThreshold,
		BreakerReset:     cfg.Events.BreakerReset,
	})
}

// Init starts preloading for requesterID (the host's package name) and
// requests an ad right away. cb receives every later notification.
func (s *SDK) Init(requesterID string, cb Callbacks) {
	s.ctrl.Init(requesterID, cb)
}

// RequestAd asks for an ad again, e.g. after OnNoAvailable.
func (s *SDK) RequestAd(requesterID string, cb Callbacks) {
	s.ctrl.RequestAd(requesterID, cb)
}

func (s *SDK) IsReady() bool { return s.ctrl.IsReady() }

func (s *SDK) CurrentAd() *Ad { return s.ctrl.CurrentAd() }

func (s *SDK) State() State { return s.ctrl.State() }

// Show hands the ad to surface. Failures are also reported via OnError.
func (s *SDK) Show(surface Surface) error { return s.ctrl.Show(surface) }

func (s *SDK) Pause() { s.ctrl.Pause() }

func (s *SDK) Resume() { s.ctrl.Resume() }

// WatchedSeconds is the watch time of the current display.
func (s *SDK) WatchedSeconds() float64 { return s.ctrl.WatchedSeconds() }

// EventSinkState reports the circuit breaker state guarding event delivery.
func (s *SDK) EventSinkState() string { return string(s.breaker.State()) }

// HealthCheckers exposes the SDK's readiness probes.
func (s *SDK) HealthCheckers() []health.Checker {
	inventory := health.NewFuncChecker("ad_inventory", func(context.Context) health.CheckResult {
		if s.ctrl.IsReady() {
			return health.CheckResult{Status: health.StatusHealthy, Message: "ad ready"}
		}
		if s.preload.InFlight() {
			return health.CheckResult{Status: health.StatusDegraded, Message: "fetching"}
		}
		return health.CheckResult{Status: health.StatusDegraded, Message: "no ad ready"}
	})
	sink := health.NewFuncChecker("event_sink", func(context.Context) health.CheckResult {
		switch st := s.breaker.State(); st {
		case resilience.StateOpen:
			return health.CheckResult{Status: health.StatusUnhealthy, Error: "circuit " + string(st)}
		case resilience.StateHalfOpen:
			return health.CheckResult{Status: health.StatusDegraded, Message: "circuit " + string(st)}
		default:
			return health.CheckResult{Status: health.StatusHealthy}
		}
	})
	return []health.Checker{inventory, sink}
}

// Close ends an active display, stops preloading and waits for pending
// event deliveries, bounded by ctx. It is safe to call more than once.
func (s *SDK) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.closeErr = errors.Join(
			s.ctrl.Close(ctx),
			s.preload.Close(ctx),
			s.reporter.Close(ctx),
		)
	})
	return s.closeErr
}
