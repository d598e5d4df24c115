// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package controller

import (
	"github.com/ManuGH/rewardkit/internal/domain/ad/lifecycle"
	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	rklog "github.com/ManuGH/rewardkit/internal/log"
)

// Playback receives the signals of one display. Once that display has ended,
// every further signal is ignored.
type Playback struct {
	c          *Controller
	generation uint64
}

var _ ports.Signals = (*Playback)(nil)

// Prepared starts watch time. A repeated Prepared after a pause resumes it.
func (p *Playback) Prepared() {
	p.signal("prepared", func(c *Controller, d *display, _ *notifications) {
		if d.paused {
			d.prepared = true
			return
		}
		if !d.prepared {
			d.prepared = true
			c.watch.Start()
			return
		}
		if !d.videoCompleted {
			c.watch.Resume()
		}
	})
}

// Completed records that the video played to the end. No event is sent yet.
func (p *Playback) Completed() {
	p.signal("completed", func(c *Controller, d *display, _ *notifications) {
		d.videoCompleted = true
		c.watch.Pause()
	})
}

// Skip ends the display with a skip event.
func (p *Playback) Skip() {
	p.signal("skip", func(c *Controller, d *display, n *notifications) {
		c.endLocked(d, model.EventSkip, c.callbacks.OnAdSkipped, n)
		n.add(d.surface.Close)
	})
}

// Exit ends the display with a view event if the video completed, else exit.
func (p *Playback) Exit() {
	p.signal("exit", func(c *Controller, d *display, n *notifications) {
		c.exitLocked(d, n)
	})
}

// ClickThrough sends a click event once and then exits.
func (p *Playback) ClickThrough() {
	p.signal("click", func(c *Controller, d *display, n *notifications) {
		if !d.clickSent {
			d.clickSent = true
			c.reporter.Report(c.current.ID, c.requesterID, model.EventClick, c.watch.Total())
		}
		c.exitLocked(d, n)
	})
}

// Teardown ends a display the surface lost without an explicit action.
func (p *Playback) Teardown() {
	p.signal("teardown", func(c *Controller, d *display, n *notifications) {
		c.teardownLocked(d, n)
	})
}

// Fail ends the display like Teardown and reports err through OnError.
func (p *Playback) Fail(err error) {
	p.signal("error", func(c *Controller, d *display, n *notifications) {
		c.logger.Warn().Err(err).Str(rklog.FieldSessionID, d.id).Msg("display surface failed")
		cb := c.callbacks
		c.teardownLocked(d, n)
		if err != nil {
			n.add(cb.failed(err.Error()))
		}
	})
}

func (p *Playback) signal(name string, fn func(c *Controller, d *display, n *notifications)) {
	c := p.c
	var n notifications

	c.mu.Lock()
	d := c.display
	if d == nil || d.generation != p.generation || c.state != model.StateDisplaying {
		c.mu.Unlock()
		c.logger.Debug().Str(rklog.FieldEvent, name).Msg("ignoring signal from ended display")
		return
	}
	fn(c, d, &n)
	c.mu.Unlock()

	n.run(c.logger)
}

func (c *Controller) exitLocked(d *display, n *notifications) {
	evType := model.EventExit
	if d.videoCompleted {
		evType = model.EventView
	}
	c.endLocked(d, evType, c.callbacks.OnAdExited, n)
	n.add(d.surface.Close)
}

func (c *Controller) teardownLocked(d *display, n *notifications) {
	evType, notify := model.EventExit, c.callbacks.OnAdExited
	if d.videoCompleted {
		evType, notify = model.EventView, c.callbacks.OnAdFinished
	}
	c.endLocked(d, evType, notify, n)
}

// endLocked emits the single terminal event of d, returns to Idle and asks
// the preload cache for the next ad.
func (c *Controller) endLocked(d *display, evType model.EventType, notify func(), n *notifications) {
	c.watch.Pause()
	watched := c.watch.Total()
	ad := c.current

	c.reporter.Report(ad.ID, c.requesterID, evType, watched)
	c.logger.Info().
		Str(rklog.FieldAdID, ad.ID).
		Str(rklog.FieldSessionID, d.id).
		Str(rklog.FieldEventType, string(evType)).
		Float64(rklog.FieldWatchDuration, watched).
		Msg("display ended")

	c.current = nil
	c.display = nil
	c.generation++
	c.transitionLocked(lifecycle.EvSessionEnded)
	if !c.closed {
		c.preload.ScheduleFetch()
	}
	n.add(notify)
}
