// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

// State is the controller's view of the current ad.
type State string

const (
	// StateIdle holds no current ad.
	StateIdle State = "IDLE"
	// StateAcquiring has a direct fetch outstanding.
	StateAcquiring State = "ACQUIRING"
	// StateReady holds a current ad not yet handed to a surface.
	StateReady State = "READY"
	// StateDisplaying has handed the current ad to a surface.
	StateDisplaying State = "DISPLAYING"
)

// HoldsAd reports whether a current ad exists in this state.
func (s State) HoldsAd() bool {
	return s == StateReady || s == StateDisplaying
}

// States lists every controller state.
func States() []State {
	return []State{StateIdle, StateAcquiring, StateReady, StateDisplaying}
}
