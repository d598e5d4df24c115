// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

// EventKind is a domain event in the ad lifecycle.
type EventKind int

const (
	EvUnknown EventKind = iota
	EvAcquireStarted
	EvAdAvailable
	EvAcquireEmpty
	EvAcquireFailed
	EvDisplayStarted
	EvSessionEnded
)

var eventNames = map[EventKind]string{
	EvUnknown:        "unknown",
	EvAcquireStarted: "acquire_started",
	EvAdAvailable:    "ad_available",
	EvAcquireEmpty:   "acquire_empty",
	EvAcquireFailed:  "acquire_failed",
	EvDisplayStarted: "display_started",
	EvSessionEnded:   "session_ended",
}

func (e EventKind) String() string {
	if s, ok := eventNames[e]; ok {
		return s
	}
	return "unknown"
}

// Events lists every known event kind except EvUnknown.
func Events() []EventKind {
	return []EventKind{
		EvAcquireStarted,
		EvAdAvailable,
		EvAcquireEmpty,
		EvAcquireFailed,
		EvDisplayStarted,
		EvSessionEnded,
	}
}
