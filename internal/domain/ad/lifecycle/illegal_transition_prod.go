// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !debug

package lifecycle

import (
	"fmt"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

func illegalTransition(from model.State, ev EventKind, reason string) (Transition, error) {
	tr := Transition{From: from, To: from, Event: ev}
	return tr, fmt.Errorf("%w: %s + %v (%s)", ErrIllegalTransition, from, ev, reason)
}
