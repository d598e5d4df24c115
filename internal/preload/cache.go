// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package preload keeps a single ad fetched ahead of time so that showing an
// ad does not wait on the network.
package preload

import (
	"context"
	"sync"
	"time"

	"github.com/ManuGH/rewardkit/internal/clock"
	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	rklog "github.com/ManuGH/rewardkit/internal/log"
	"github.com/ManuGH/rewardkit/internal/metrics"
	"github.com/ManuGH/rewardkit/internal/worker"
	"github.com/rs/zerolog"
)

const (
	DefaultEmptyBackoff   = 2 * time.Second
	DefaultFailureBackoff = 5 * time.Second
	DefaultFetchTimeout   = 10 * time.Second
)

// Options configures a Cache. Zero values select the defaults.
type Options struct {
	Clock          clock.Clock
	EmptyBackoff   time.Duration
	FailureBackoff time.Duration
	FetchTimeout   time.Duration
	Logger         *zerolog.Logger
}

// Cache holds at most one prefetched ad and at most one outstanding fetch.
//
// Every fetch is tagged with a token. A completion whose token is no longer
// current (the cache was re-initialized or closed meanwhile) is discarded.
type Cache struct {
	source         ports.AdSource
	clock          clock.Clock
	emptyBackoff   time.Duration
	failureBackoff time.Duration
	fetchTimeout   time.Duration
	logger         zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	workers worker.Registry

	mu          sync.Mutex
	requesterID string
	ready       *model.Ad
	inFlight    bool
	token       uint64
	abortFetch  context.CancelFunc
	retry       clock.Timer
	closed      bool
}

// New creates an idle cache. Nothing is fetched until Initialize.
func New(source ports.AdSource, opts Options) *Cache {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.EmptyBackoff <= 0 {
		opts.EmptyBackoff = DefaultEmptyBackoff
	}
	if opts.FailureBackoff <= 0 {
		opts.FailureBackoff = DefaultFailureBackoff
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	logger := rklog.WithComponent("preload")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		source:         source,
		clock:          opts.Clock,
		emptyBackoff:   opts.EmptyBackoff,
		failureBackoff: opts.FailureBackoff,
		fetchTimeout:   opts.FetchTimeout,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Initialize sets the requester and schedules a fetch right away.
// Switching to a different requester drops the held ad and supersedes the
// outstanding fetch.
func (c *Cache) Initialize(requesterID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	if requesterID != c.requesterID {
		if c.requesterID != "" {
			c.logger.Info().
				Str("previous", c.requesterID).
				Str(rklog.FieldPackageName, requesterID).
				Msg("requester changed, resetting preload slot")
		}
		c.requesterID = requesterID
		c.setReadyLocked(nil)
		c.supersedeLocked()
	}
	c.scheduleLocked()
}

// HasReady reports whether an ad is held.
func (c *Cache) HasReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready != nil
}

// InFlight reports whether a fetch is outstanding.
func (c *Cache) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Take removes and returns the held ad, or nil, and schedules the next fetch
// either way. It never blocks on the network.
func (c *Cache) Take() *model.Ad {
	c.mu.Lock()
	defer c.mu.Unlock()

	ad := c.ready
	c.setReadyLocked(nil)
	c.scheduleLocked()
	return ad
}

// ScheduleFetch starts a background fetch unless one is outstanding, no
// requester is set, the slot is full or the cache is closed.
func (c *Cache) ScheduleFetch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleLocked()
}

// Close stops pending retries, cancels the outstanding fetch and waits for
// background work to finish or ctx to expire.
func (c *Cache) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopRetryLocked()
	c.supersedeLocked()
	c.setReadyLocked(nil)
	c.mu.Unlock()

	c.cancel()
	return c.workers.CloseAndWait(ctx)
}

func (c *Cache) scheduleLocked() {
	if c.closed || c.inFlight || c.requesterID == "" || c.ready != nil {
		return
	}
	c.stopRetryLocked()

	c.token++
	token := c.token
	requesterID := c.requesterID
	fetchCtx, abort := context.WithTimeout(c.ctx, c.fetchTimeout)

	started := c.workers.Go(func() {
		defer abort()
		ad, err := c.source.FetchRandomAd(fetchCtx, requesterID)
		if err == nil {
			err = ad.Validate()
		}
		c.complete(token, ad, err)
	})
	if !started {
		abort()
		return
	}
	c.inFlight = true
	c.abortFetch = abort
}

func (c *Cache) complete(token uint64, ad *model.Ad, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || !c.inFlight || token != c.token {
		metrics.RecordPreloadFetch("stale")
		c.logger.Debug().Uint64(rklog.FieldGeneration, token).Msg("discarding superseded preload completion")
		return
	}
	c.inFlight = false
	c.abortFetch = nil

	outcome := ports.Classify(err)
	metrics.RecordPreloadFetch(string(outcome))

	switch outcome {
	case ports.OutcomeAd:
		c.setReadyLocked(ad)
		c.logger.Debug().Str(rklog.FieldAdID, ad.ID).Msg("ad preloaded")
	case ports.OutcomeEmpty:
		c.logger.Debug().Dur(rklog.FieldBackoff, c.emptyBackoff).Msg("no ad available, retrying")
		c.scheduleRetryLocked(c.emptyBackoff, outcome)
	default:
		c.logger.Warn().Err(err).
			Str(rklog.FieldPackageName, c.requesterID).
			Dur(rklog.FieldBackoff, c.failureBackoff).
			Msg("preload fetch failed")
		c.scheduleRetryLocked(c.failureBackoff, outcome)
	}
}

func (c *Cache) scheduleRetryLocked(delay time.Duration, class ports.FetchOutcome) {
	c.stopRetryLocked()
	metrics.RecordPreloadRetry(string(class))

	token := c.token
	c.retry = c.clock.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// a newer fetch already ran or the cache was reset
		if token != c.token {
			return
		}
		c.retry = nil
		c.scheduleLocked()
	})
}

// supersedeLocked invalidates the outstanding fetch, if any.
func (c *Cache) supersedeLocked() {
	c.token++
	if c.abortFetch != nil {
		c.abortFetch()
		c.abortFetch = nil
	}
	c.inFlight = false
}

func (c *Cache) stopRetryLocked() {
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
}

func (c *Cache) setReadyLocked(ad *model.Ad) {
	c.ready = ad
	metrics.SetPreloadSlotFilled(ad != nil)
}
