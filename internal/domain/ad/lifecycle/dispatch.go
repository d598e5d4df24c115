// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package lifecycle is the single source of truth for controller state changes.
package lifecycle

import (
	"errors"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

// ErrIllegalTransition is returned (or panicked with in debug builds) when an
// event is not allowed in the current state.
var ErrIllegalTransition = errors.New("illegal lifecycle transition")

// Dispatch resolves the transition for ev in state from.
// On an illegal event the returned transition keeps the state unchanged.
func Dispatch(from model.State, ev EventKind) (Transition, error) {
	decision, ok := DecisionFor(from, ev)
	if !ok || !decision.Allowed {
		return illegalTransition(from, ev, decision.Reason)
	}
	tr, ok := TransitionFor(from, ev)
	if !ok {
		return illegalTransition(from, ev, "missing_edge")
	}
	return tr, nil
}
