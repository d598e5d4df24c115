// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import (
	"time"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

// Signals is the channel back from a surface into the controller for one
// display. Every method is safe to call from any goroutine; calls made after
// the display ended are ignored.
type Signals interface {
	// Prepared reports that playback actually started.
	Prepared()
	// Completed reports that the video played to its end.
	Completed()
	// Skip reports a click on the skip button.
	Skip()
	// Exit reports a click on the exit button.
	Exit()
	// ClickThrough reports a click on the end-card call-to-action.
	ClickThrough()
	// Teardown reports that the surface went away without an explicit action.
	Teardown()
	// Fail reports a playback error; the display ends as a teardown.
	Fail(err error)
}

// Presentation is everything a surface needs to play one ad.
type Presentation struct {
	SessionID string
	Ad        *model.Ad
	SkipAfter time.Duration
	ExitAfter time.Duration
	Signals   Signals
}

// Surface is the video rendering capability. Layout, scaling and button
// visibility are its own business; it reports back through Signals.
type Surface interface {
	Present(p Presentation) error
	Pause()
	Play()
	SeekTo(pos time.Duration)
	Position() time.Duration
	// Close is called after an explicit skip/exit/click ended the display.
	Close()
}
