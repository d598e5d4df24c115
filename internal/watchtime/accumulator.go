// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package watchtime accumulates how long a video was actively playing across
// pause/resume boundaries.
package watchtime

import (
	"sync"
	"time"

	"github.com/ManuGH/rewardkit/internal/clock"
)

// Accumulator tracks watched time for one display session.
// The running total only grows while tracking is active.
type Accumulator struct {
	clock clock.Clock

	mu     sync.Mutex
	total  time.Duration
	active bool
	since  time.Time
}

// New returns an inactive accumulator reading time from c (clock.Real if nil).
func New(c clock.Clock) *Accumulator {
	if c == nil {
		c = clock.Real{}
	}
	return &Accumulator{clock: c}
}

// Start marks tracking active from now. The running total is kept.
func (a *Accumulator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.since = a.clock.Now()
	a.active = true
}

// Pause folds the current interval into the total and freezes it.
func (a *Accumulator) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return
	}
	a.total += a.elapsedLocked()
	a.active = false
}

// Resume restarts accrual from now. Resuming an active accumulator is a no-op.
func (a *Accumulator) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active {
		return
	}
	a.since = a.clock.Now()
	a.active = true
}

// Reset clears the total and stops tracking.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total = 0
	a.active = false
	a.since = time.Time{}
}

// Active reports whether time is currently accruing.
func (a *Accumulator) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Elapsed returns the accrued duration without changing state.
func (a *Accumulator) Elapsed() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return a.total
	}
	return a.total + a.elapsedLocked()
}

// Total returns the accrued time in seconds without changing state.
func (a *Accumulator) Total() float64 {
	return a.Elapsed().Seconds()
}

func (a *Accumulator) elapsedLocked() time.Duration {
	d := a.clock.Now().Sub(a.since)
	if d < 0 {
		return 0
	}
	return d
}
