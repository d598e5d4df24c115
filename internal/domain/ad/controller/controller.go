// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package controller owns the current ad of one session: it acquires an ad,
// hands it to a display surface and ends the display with exactly one
// terminal analytics event.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ManuGH/rewardkit/internal/clock"
	"github.com/ManuGH/rewardkit/internal/domain/ad/lifecycle"
	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	rklog "github.com/ManuGH/rewardkit/internal/log"
	"github.com/ManuGH/rewardkit/internal/metrics"
	"github.com/ManuGH/rewardkit/internal/validate"
	"github.com/ManuGH/rewardkit/internal/watchtime"
	"github.com/ManuGH/rewardkit/internal/worker"
)

var (
	ErrNoAd              = errors.New("no ad available to show")
	ErrNoSurface         = errors.New("no display surface")
	ErrAlreadyDisplaying = errors.New("an ad is already displaying")
	ErrInvalidRequester  = errors.New("missing or malformed requester id")
	ErrClosed            = errors.New("controller closed")
)

const defaultFetchTimeout = 10 * time.Second

// PreloadCache is the prefetch slot the controller draws from.
type PreloadCache interface {
	Initialize(requesterID string)
	HasReady() bool
	Take() *model.Ad
	ScheduleFetch()
}

// EventReporter emits analytics events without blocking.
type EventReporter interface {
	Report(adID, requesterID string, eventType model.EventType, watchSeconds float64)
}

type Options struct {
	Preload      PreloadCache
	Source       ports.AdSource
	Reporter     EventReporter
	Clock        clock.Clock
	FetchTimeout time.Duration
	Logger       *zerolog.Logger
}

// Controller is the lifecycle state holder of one ad session.
// All state is guarded by mu; host callbacks run after mu is released.
type Controller struct {
	preload      PreloadCache
	source       ports.AdSource
	reporter     EventReporter
	watch        *watchtime.Accumulator
	fetchTimeout time.Duration
	logger       zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	workers worker.Registry

	mu          sync.Mutex
	state       model.State
	requesterID string
	callbacks   Callbacks
	current     *model.Ad
	generation  uint64
	display     *display
	closed      bool
}

// display is the bookkeeping of the ad currently handed to a surface.
type display struct {
	id             string
	generation     uint64
	surface        ports.Surface
	prepared       bool
	videoCompleted bool
	clickSent      bool
	paused         bool
	position       time.Duration

	// surfaceMu orders the Pause/Resume calls made on surface; surfacePaused
	// records whether a Pause actually reached it.
	surfaceMu     sync.Mutex
	surfacePaused bool
}

// New builds an idle controller. Preload, Source and Reporter are required.
func New(opts Options) (*Controller, error) {
	if opts.Preload == nil || opts.Source == nil || opts.Reporter == nil {
		return nil, fmt.Errorf("controller: preload, source and reporter are required")
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	logger := rklog.WithComponent("controller")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		preload:      opts.Preload,
		source:       opts.Source,
		reporter:     opts.Reporter,
		watch:        watchtime.New(opts.Clock),
		fetchTimeout: opts.FetchTimeout,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		state:        model.StateIdle,
	}, nil
}

// Init sets up the session for requesterID: the preload cache starts
// fetching and an ad is requested right away.
func (c *Controller) Init(requesterID string, cb Callbacks) {
	if validate.ValidPackageName(requesterID) {
		c.mu.Lock()
		closed := c.closed
		c.mu.Unlock()
		if !closed {
			c.preload.Initialize(requesterID)
		}
	}
	c.RequestAd(requesterID, cb)
}

// RequestAd acquires an ad and reports it through cb. A preloaded ad is
// announced before RequestAd returns; otherwise the ad server is asked
// directly and cb is notified from the fetch goroutine.
func (c *Controller) RequestAd(requesterID string, cb Callbacks) {
	var n notifications
	c.mu.Lock()
	c.requestAdLocked(requesterID, cb, &n)
	c.mu.Unlock()
	n.run(c.logger)
}

func (c *Controller) requestAdLocked(requesterID string, cb Callbacks, n *notifications) {
	if c.closed {
		n.add(cb.failed(ErrClosed.Error()))
		return
	}
	if !validate.ValidPackageName(requesterID) {
		c.logger.Warn().Str(rklog.FieldPackageName, requesterID).Msg("rejecting ad request")
		n.add(cb.failed(fmt.Sprintf("%v: %q", ErrInvalidRequester, requesterID)))
		return
	}

	if requesterID != c.requesterID && c.requesterID != "" {
		c.preload.Initialize(requesterID)
	}
	c.requesterID = requesterID
	c.callbacks = cb

	switch c.state {
	case model.StateReady:
		n.add(cb.adAvailable(c.current))
		return
	case model.StateDisplaying:
		n.add(cb.failed(ErrAlreadyDisplaying.Error()))
		return
	case model.StateAcquiring:
		return
	}

	if c.preload.HasReady() {
		if ad := c.preload.Take(); ad != nil {
			c.current = ad
			c.transitionLocked(lifecycle.EvAdAvailable)
			n.add(cb.adAvailable(ad))
			return
		}
	}

	c.generation++
	gen := c.generation
	c.transitionLocked(lifecycle.EvAcquireStarted)
	started := c.workers.Go(func() {
		ctx, cancel := context.WithTimeout(c.ctx, c.fetchTimeout)
		defer cancel()
		ad, err := c.source.FetchRandomAd(ctx, requesterID)
		if err == nil {
			err = ad.Validate()
		}
		c.completeAcquire(gen, ad, err)
	})
	if !started {
		c.transitionLocked(lifecycle.EvAcquireFailed)
		n.add(cb.failed(ErrClosed.Error()))
	}
}

func (c *Controller) completeAcquire(gen uint64, ad *model.Ad, err error) {
	var n notifications
	c.mu.Lock()
	if c.closed || gen != c.generation || c.state != model.StateAcquiring {
		c.mu.Unlock()
		metrics.RecordDirectFetch("stale")
		return
	}

	cb := c.callbacks
	outcome := ports.Classify(err)
	metrics.RecordDirectFetch(string(outcome))
	switch outcome {
	case ports.OutcomeAd:
		c.current = ad
		c.transitionLocked(lifecycle.EvAdAvailable)
		n.add(cb.adAvailable(ad))
	case ports.OutcomeEmpty:
		c.transitionLocked(lifecycle.EvAcquireEmpty)
		n.add(cb.noAvailable())
	default:
		c.logger.Warn().Err(err).Str(rklog.FieldPackageName, c.requesterID).Msg("ad fetch failed")
		c.transitionLocked(lifecycle.EvAcquireFailed)
		n.add(cb.failed(err.Error()))
	}
	c.mu.Unlock()
	n.run(c.logger)
}

// IsReady reports whether a current or a preloaded ad exists.
func (c *Controller) IsReady() bool {
	c.mu.Lock()
	hasCurrent := c.current != nil
	c.mu.Unlock()
	return hasCurrent || c.preload.HasReady()
}

// CurrentAd returns the ad held by the controller, or nil.
func (c *Controller) CurrentAd() *model.Ad {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// State returns the lifecycle state.
func (c *Controller) State() model.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show hands the current ad, or a freshly taken preloaded one, to surface.
// Misuse is reported through OnError as well as the returned error.
func (c *Controller) Show(surface ports.Surface) error {
	var n notifications
	c.mu.Lock()
	cb := c.callbacks

	fail := func(err error) error {
		c.mu.Unlock()
		n.add(cb.failed(err.Error()))
		n.run(c.logger)
		return err
	}

	switch {
	case c.closed:
		return fail(ErrClosed)
	case surface == nil:
		return fail(ErrNoSurface)
	case c.state == model.StateDisplaying:
		return fail(ErrAlreadyDisplaying)
	}

	ad := c.current
	if ad == nil {
		ad = c.preload.Take()
		if ad == nil {
			return fail(ErrNoAd)
		}
		c.current = ad
		if c.state == model.StateAcquiring {
			// the outstanding direct fetch is superseded by the preloaded ad
			c.generation++
			c.transitionLocked(lifecycle.EvAdAvailable)
		}
	}

	c.generation++
	d := &display{id: uuid.NewString(), generation: c.generation, surface: surface}
	c.display = d
	c.watch.Reset()
	c.transitionLocked(lifecycle.EvDisplayStarted)
	c.logger.Info().
		Str(rklog.FieldAdID, ad.ID).
		Str(rklog.FieldSessionID, d.id).
		Str(rklog.FieldPackageName, c.requesterID).
		Msg("displaying ad")

	playback := &Playback{c: c, generation: d.generation}
	presentation := ports.Presentation{
		SessionID: d.id,
		Ad:        ad,
		SkipAfter: ad.SkipDelay(),
		ExitAfter: ad.ExitDelay(),
		Signals:   playback,
	}
	c.mu.Unlock()

	if err := surface.Present(presentation); err != nil {
		err = fmt.Errorf("present ad: %w", err)
		playback.Fail(err)
		return err
	}
	return nil
}

// Pause freezes the display when the host goes to the background.
func (c *Controller) Pause() {
	c.mu.Lock()
	d := c.display
	if d == nil || d.paused {
		c.mu.Unlock()
		return
	}
	d.paused = true
	c.watch.Pause()
	c.mu.Unlock()

	d.surfaceMu.Lock()
	defer d.surfaceMu.Unlock()

	// a Resume may have landed before the surface was reached
	c.mu.Lock()
	current := c.display == d && d.paused
	c.mu.Unlock()
	if !current || d.surfacePaused {
		return
	}

	pos := d.surface.Position()
	d.surface.Pause()
	d.surfacePaused = true

	c.mu.Lock()
	if c.display == d {
		d.position = pos
	}
	c.mu.Unlock()
}

// Resume continues a paused display from the saved position. Watch time
// only resumes once the video had been prepared and has not completed.
func (c *Controller) Resume() {
	c.mu.Lock()
	d := c.display
	if d == nil || !d.paused {
		c.mu.Unlock()
		return
	}
	d.paused = false
	if d.prepared && !d.videoCompleted {
		c.watch.Resume()
	}
	c.mu.Unlock()

	d.surfaceMu.Lock()
	defer d.surfaceMu.Unlock()

	c.mu.Lock()
	current := c.display == d && !d.paused
	completed := d.videoCompleted
	pos := d.position
	c.mu.Unlock()
	if !current || !d.surfacePaused {
		return
	}
	d.surfacePaused = false
	if completed {
		return
	}
	d.surface.SeekTo(pos)
	d.surface.Play()
}

// WatchedSeconds returns the watch time of the current display.
func (c *Controller) WatchedSeconds() float64 {
	return c.watch.Total()
}

// Close ends an active display as a teardown and waits for outstanding
// fetches, bounded by ctx.
func (c *Controller) Close(ctx context.Context) error {
	var n notifications
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if d := c.display; d != nil {
		c.teardownLocked(d, &n)
	}
	c.generation++
	c.mu.Unlock()
	n.run(c.logger)

	c.cancel()
	return c.workers.CloseAndWait(ctx)
}

// transitionLocked applies ev through the lifecycle table.
func (c *Controller) transitionLocked(ev lifecycle.EventKind) {
	tr, err := lifecycle.Dispatch(c.state, ev)
	if err != nil {
		c.logger.Error().Err(err).Str(rklog.FieldOldState, string(c.state)).Msg("lifecycle transition rejected")
		return
	}
	if tr.To == c.state {
		return
	}
	c.logger.Debug().
		Str(rklog.FieldOldState, string(tr.From)).
		Str(rklog.FieldNewState, string(tr.To)).
		Str(rklog.FieldEvent, ev.String()).
		Msg("lifecycle transition")
	metrics.RecordTransition(string(tr.From), string(tr.To))
	c.state = tr.To
}
