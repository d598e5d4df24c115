// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

// Deps contains dependencies required by the daemon Manager.
type Deps struct {
	Logger zerolog.Logger

	// ListenAddr of the debug server. Empty disables it.
	ListenAddr string

	// Handler serves metrics and health probes on ListenAddr.
	Handler http.Handler

	ShutdownTimeout time.Duration
}

// Validate checks that all required dependencies are present.
func (d Deps) Validate() error {
	if d.ListenAddr != "" && d.Handler == nil {
		return ErrMissingHandler
	}
	return nil
}
