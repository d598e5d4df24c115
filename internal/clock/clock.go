// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package clock abstracts time so retry timing and watch-time accrual can be
// driven by a virtual clock in tests.
package clock

import "time"

// Clock is the time source shared by the preload cache, the watch-time
// accumulator and the event reporter.
type Clock interface {
	// Now returns the current time. Real readings carry a monotonic component,
	// so Sub between two of them ignores wall-clock adjustments.
	Now() time.Time

	// AfterFunc runs f on its own goroutine (Real) or inside Advance (Fake)
	// once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable delayed task.
type Timer interface {
	// Stop prevents the task from running. It reports false if the task
	// already ran or was stopped.
	Stop() bool
}

// Real implements Clock using the standard time package.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
