// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package worker tracks background goroutines so owners can join them on shutdown.
package worker

import (
	"context"
	"fmt"
	"sync"
)

// Registry launches tracked goroutines and provides a bounded join.
// The zero value is ready to use.
type Registry struct {
	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

// Go runs fn on a new goroutine unless the registry is closing.
// It reports whether fn was started.
func (r *Registry) Go(fn func()) bool {
	r.mu.Lock()
	if r.closing {
		r.mu.Unlock()
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		fn()
	}()

	return true
}

// CloseAndWait rejects new work and waits for running goroutines or ctx.
func (r *Registry) CloseAndWait(ctx context.Context) error {
	r.mu.Lock()
	r.closing = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker drain timeout: %w", ctx.Err())
	}
}
