// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/rewardkit/adsdk"
	rklog "github.com/ManuGH/rewardkit/internal/log"
)

// scenario is how the simulated viewer ends one display.
type scenario string

const (
	scenarioView     scenario = "view"
	scenarioSkip     scenario = "skip"
	scenarioClick    scenario = "click"
	scenarioExit     scenario = "exit"
	scenarioTeardown scenario = "teardown"
)

var scenarios = []scenario{scenarioView, scenarioSkip, scenarioClick, scenarioExit, scenarioTeardown}

type hostEvent int

const (
	hostAvailable hostEvent = iota
	hostEnded
	hostNoAd
	hostError
)

// simulator plays ads back to back the way a host app would.
type simulator struct {
	sdk         *adsdk.SDK
	packageName string
	cycles      int
	watch       time.Duration
	retry       time.Duration
	logger      zerolog.Logger

	events chan hostEvent
}

func newSimulator(sdk *adsdk.SDK, packageName string, cycles int, watch time.Duration) *simulator {
	return &simulator{
		sdk:         sdk,
		packageName: packageName,
		cycles:      cycles,
		watch:       watch,
		retry:       2 * time.Second,
		logger:      rklog.WithComponent("adsim"),
		events:      make(chan hostEvent, 16),
	}
}

func (s *simulator) notify(ev hostEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *simulator) callbacks() adsdk.Callbacks {
	return adsdk.Callbacks{
		OnAdAvailable: func(ad *adsdk.Ad) {
			s.logger.Info().Str(rklog.FieldAdID, ad.ID).Str("name", ad.AdName).Msg("ad available")
			s.notify(hostAvailable)
		},
		OnAdFinished:  func() { s.notify(hostEnded) },
		OnAdSkipped:   func() { s.notify(hostEnded) },
		OnAdExited:    func() { s.notify(hostEnded) },
		OnNoAvailable: func(*adsdk.Ad) { s.notify(hostNoAd) },
		OnError: func(msg string) {
			s.logger.Warn().Str("error", msg).Msg("sdk reported an error")
			s.notify(hostError)
		},
	}
}

// Run shows cycles ads, or runs until ctx ends when cycles is zero.
func (s *simulator) Run(ctx context.Context) error {
	cb := s.callbacks()
	s.sdk.Init(s.packageName, cb)

	for i := 0; s.cycles == 0 || i < s.cycles; i++ {
		if err := s.awaitAd(ctx, cb); err != nil {
			return ignoreCanceled(err)
		}

		sc := scenarios[i%len(scenarios)]
		surface := newSimSurface(ctx, sc, s.watch, s.logger)
		if err := s.sdk.Show(surface); err != nil {
			s.logger.Warn().Err(err).Msg("show failed")
			continue
		}
		if err := s.awaitEnd(ctx); err != nil {
			return ignoreCanceled(err)
		}
		s.logger.Info().
			Int("cycle", i+1).
			Str("scenario", string(sc)).
			Float64(rklog.FieldWatchDuration, surface.watched()).
			Msg("cycle done")
	}
	return nil
}

func (s *simulator) awaitAd(ctx context.Context, cb adsdk.Callbacks) error {
	for {
		if s.sdk.IsReady() && s.sdk.State() != adsdk.StateDisplaying {
			return nil
		}
		s.sdk.RequestAd(s.packageName, cb)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			if ev == hostNoAd || ev == hostError {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(s.retry):
				}
			}
		}
	}
}

func (s *simulator) awaitEnd(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			if ev == hostEnded {
				return nil
			}
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// simSurface stands in for a video player. It starts playing as soon as it
// is presented and ends the display according to its scenario.
type simSurface struct {
	ctx      context.Context
	scenario scenario
	watch    time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	started time.Time
	elapsed time.Duration
	paused  bool
}

var _ adsdk.Surface = (*simSurface)(nil)

func newSimSurface(ctx context.Context, sc scenario, watch time.Duration, logger zerolog.Logger) *simSurface {
	return &simSurface{ctx: ctx, scenario: sc, watch: watch, logger: logger}
}

func (s *simSurface) Present(p adsdk.Presentation) error {
	s.logger.Debug().
		Str(rklog.FieldSessionID, p.SessionID).
		Str("video", p.Ad.Details.VideoURL).
		Dur("skip_after", p.SkipAfter).
		Dur("exit_after", p.ExitAfter).
		Msg("presenting")
	go s.play(p.Signals)
	return nil
}

func (s *simSurface) play(sig adsdk.Signals) {
	s.mu.Lock()
	s.started = time.Now()
	s.mu.Unlock()
	sig.Prepared()

	select {
	case <-s.ctx.Done():
		sig.Teardown()
		return
	case <-time.After(s.watch):
	}

	switch s.scenario {
	case scenarioView:
		sig.Completed()
		sig.Exit()
	case scenarioSkip:
		sig.Skip()
	case scenarioClick:
		sig.Completed()
		sig.ClickThrough()
	case scenarioExit:
		sig.Exit()
	default:
		sig.Teardown()
	}
}

func (s *simSurface) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paused && !s.started.IsZero() {
		s.elapsed += time.Since(s.started)
		s.paused = true
	}
}

func (s *simSurface) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		s.started = time.Now()
		s.paused = false
	}
}

func (s *simSurface) SeekTo(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = pos
}

func (s *simSurface) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused || s.started.IsZero() {
		return s.elapsed
	}
	return s.elapsed + time.Since(s.started)
}

func (s *simSurface) Close() {}

func (s *simSurface) watched() float64 {
	return s.Position().Seconds()
}
