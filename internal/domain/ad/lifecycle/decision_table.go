// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/rewardkit/internal/domain/ad/model"

const (
	ForbiddenOutOfOrder      = "out_of_order"
	ForbiddenAlreadyInState  = "already_in_state"
	ForbiddenRequiresAcquire = "requires_acquire"
	ForbiddenRequiresAd      = "requires_ad"
	ForbiddenRequiresDisplay = "requires_display"
	ForbiddenDisplayActive   = "display_active"
)

func allowed() Decision        { return Decision{Allowed: true} }
func forbid(r string) Decision { return Decision{Allowed: false, Reason: r} }

// decisionTable defines an explicit decision for every State×Event combination.
var decisionTable = map[model.State]map[EventKind]Decision{
	model.StateIdle: {
		EvAcquireStarted: allowed(),
		EvAdAvailable:    allowed(),
		EvAcquireEmpty:   forbid(ForbiddenRequiresAcquire),
		EvAcquireFailed:  forbid(ForbiddenRequiresAcquire),
		EvDisplayStarted: allowed(),
		EvSessionEnded:   forbid(ForbiddenRequiresDisplay),
	},
	model.StateAcquiring: {
		EvAcquireStarted: forbid(ForbiddenAlreadyInState),
		EvAdAvailable:    allowed(),
		EvAcquireEmpty:   allowed(),
		EvAcquireFailed:  allowed(),
		EvDisplayStarted: forbid(ForbiddenRequiresAd),
		EvSessionEnded:   forbid(ForbiddenRequiresDisplay),
	},
	model.StateReady: {
		EvAcquireStarted: forbid(ForbiddenOutOfOrder),
		EvAdAvailable:    forbid(ForbiddenAlreadyInState),
		EvAcquireEmpty:   forbid(ForbiddenRequiresAcquire),
		EvAcquireFailed:  forbid(ForbiddenRequiresAcquire),
		EvDisplayStarted: allowed(),
		EvSessionEnded:   forbid(ForbiddenRequiresDisplay),
	},
	model.StateDisplaying: {
		EvAcquireStarted: forbid(ForbiddenDisplayActive),
		EvAdAvailable:    forbid(ForbiddenDisplayActive),
		EvAcquireEmpty:   forbid(ForbiddenRequiresAcquire),
		EvAcquireFailed:  forbid(ForbiddenRequiresAcquire),
		EvDisplayStarted: forbid(ForbiddenAlreadyInState),
		EvSessionEnded:   allowed(),
	},
}

// DecisionFor returns the explicit decision for state×event.
func DecisionFor(from model.State, ev EventKind) (Decision, bool) {
	m, ok := decisionTable[from]
	if !ok {
		return Decision{}, false
	}
	d, ok := m[ev]
	return d, ok
}

// ForbiddenTransitionReason documents why a transition is disallowed.
func ForbiddenTransitionReason(from model.State, ev EventKind) string {
	decision, ok := DecisionFor(from, ev)
	if !ok || decision.Allowed {
		return ""
	}
	return decision.Reason
}
