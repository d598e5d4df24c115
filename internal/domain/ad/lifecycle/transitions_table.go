// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/rewardkit/internal/domain/ad/model"

// Transition is a single allowed edge in the lifecycle state machine.
type Transition struct {
	From  model.State
	To    model.State
	Event EventKind
}

// Decision records whether a transition is allowed and why it is forbidden.
type Decision struct {
	Allowed bool
	Reason  string
}

var transitionsTable = []Transition{
	// Acquisition
	{From: model.StateIdle, To: model.StateAcquiring, Event: EvAcquireStarted},
	{From: model.StateIdle, To: model.StateReady, Event: EvAdAvailable}, // preloaded ad taken
	{From: model.StateAcquiring, To: model.StateReady, Event: EvAdAvailable},
	{From: model.StateAcquiring, To: model.StateIdle, Event: EvAcquireEmpty},
	{From: model.StateAcquiring, To: model.StateIdle, Event: EvAcquireFailed},

	// Display
	{From: model.StateIdle, To: model.StateDisplaying, Event: EvDisplayStarted}, // preloaded ad taken at show time
	{From: model.StateReady, To: model.StateDisplaying, Event: EvDisplayStarted},
	{From: model.StateDisplaying, To: model.StateIdle, Event: EvSessionEnded},
}

// TransitionFor returns the allowed transition for a given state+event.
func TransitionFor(from model.State, ev EventKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}
