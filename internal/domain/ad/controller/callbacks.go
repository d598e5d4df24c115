// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package controller

import (
	"github.com/rs/zerolog"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

// Callbacks is the set of host notifications. Every field is optional.
//
// Callbacks run on the goroutine that caused them: the caller of RequestAd or
// Show, a surface signal, or a background fetch completion. The controller
// lock is never held while a callback runs, so callbacks may call back into
// the controller.
type Callbacks struct {
	OnAdAvailable func(ad *model.Ad)
	OnAdFinished  func()
	OnAdSkipped   func()
	OnAdExited    func()
	OnNoAvailable func(ad *model.Ad)
	OnError       func(message string)
}

func (cb Callbacks) adAvailable(ad *model.Ad) func() {
	if cb.OnAdAvailable == nil {
		return nil
	}
	return func() { cb.OnAdAvailable(ad) }
}

func (cb Callbacks) noAvailable() func() {
	if cb.OnNoAvailable == nil {
		return nil
	}
	return func() { cb.OnNoAvailable(nil) }
}

func (cb Callbacks) failed(message string) func() {
	if cb.OnError == nil {
		return nil
	}
	return func() { cb.OnError(message) }
}

// notifications collects work to run once the controller lock is released.
type notifications []func()

func (n *notifications) add(fn func()) {
	if fn != nil {
		*n = append(*n, fn)
	}
}

func (n notifications) run(logger zerolog.Logger) {
	for _, fn := range n {
		safeCall(logger, fn)
	}
}

func safeCall(logger zerolog.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("host callback panicked")
		}
	}()
	fn()
}
