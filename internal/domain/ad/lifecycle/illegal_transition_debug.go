// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build debug

package lifecycle

import (
	"fmt"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

func illegalTransition(from model.State, ev EventKind, reason string) (Transition, error) {
	panic(fmt.Sprintf("illegal transition: %s + %v (%s)", from, ev, reason))
}
