// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package watchtime

import (
	"testing"
	"time"

	"github.com/ManuGH/rewardkit/internal/clock"
	"github.com/stretchr/testify/assert"
)

func newFake() *clock.Fake {
	return clock.NewFake(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
}

func TestAccumulator_AccruesWhileActive(t *testing.T) {
	c := newFake()
	a := New(c)

	assert.Zero(t, a.Total())
	a.Start()
	c.Advance(1500 * time.Millisecond)

	assert.InDelta(t, 1.5, a.Total(), 1e-9)
	assert.True(t, a.Active())
}

func TestAccumulator_PauseFreezes(t *testing.T) {
	c := newFake()
	a := New(c)

	a.Start()
	c.Advance(2 * time.Second)
	a.Pause()
	c.Advance(time.Hour)

	assert.InDelta(t, 2.0, a.Total(), 1e-9)
	assert.False(t, a.Active())

	a.Pause()
	assert.InDelta(t, 2.0, a.Total(), 1e-9, "second pause is a no-op")
}

func TestAccumulator_ResumeIsIdempotent(t *testing.T) {
	c := newFake()
	a := New(c)

	a.Start()
	c.Advance(3 * time.Second)
	a.Resume()
	c.Advance(time.Second)
	a.Resume()

	assert.InDelta(t, 4.0, a.Total(), 1e-9, "resume while active must not restart the interval")
}

func TestAccumulator_PauseResumePauseSumsIntervals(t *testing.T) {
	for _, gap := range []time.Duration{0, time.Second, 90 * time.Minute} {
		c := newFake()
		a := New(c)

		a.Start()
		c.Advance(4 * time.Second)
		a.Pause()
		c.Advance(gap)
		a.Resume()
		c.Advance(2500 * time.Millisecond)
		a.Pause()

		assert.InDelta(t, 6.5, a.Total(), 1e-9, "gap %s", gap)
	}
}

func TestAccumulator_TotalDoesNotMutate(t *testing.T) {
	c := newFake()
	a := New(c)

	a.Start()
	c.Advance(time.Second)
	first := a.Total()
	second := a.Total()
	assert.Equal(t, first, second)

	c.Advance(time.Second)
	assert.Greater(t, a.Total(), first, "total is non-decreasing while active")
}

func TestAccumulator_Reset(t *testing.T) {
	c := newFake()
	a := New(c)

	a.Start()
	c.Advance(5 * time.Second)
	a.Reset()

	assert.Zero(t, a.Total())
	assert.False(t, a.Active())
}

func TestAccumulator_RealClockIsMonotonic(t *testing.T) {
	a := New(nil)
	a.Start()
	time.Sleep(5 * time.Millisecond)
	a.Pause()
	assert.Greater(t, a.Total(), 0.0)
}
