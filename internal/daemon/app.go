// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/rewardkit/internal/config"
	rklog "github.com/ManuGH/rewardkit/internal/log"
)

// Workload is the host activity the app runs next to its servers.
// Returning ends the app; a nil error is a clean finish.
type Workload func(ctx context.Context) error

// App owns the long-lived runtime lifecycle (config watcher, reload wiring,
// workload) and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	cfgHolder    *config.Holder
	workload     Workload
	reloadSignal os.Signal
}

// NewApp creates a new App orchestrator. cfgHolder and workload are optional.
func NewApp(logger zerolog.Logger, manager Manager, cfgHolder *config.Holder, workload Workload) *App {
	return &App{
		logger:       logger,
		manager:      manager,
		cfgHolder:    cfgHolder,
		workload:     workload,
		reloadSignal: syscall.SIGHUP,
	}
}

// Run blocks until ctx is cancelled, the workload returns or the server fails.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// The watcher is best-effort; startup does not fail without it.
	if a.cfgHolder != nil {
		if err := a.cfgHolder.StartWatcher(ctx); err != nil {
			a.logger.Warn().Err(err).Str("event", "config.watcher_start_failed").Msg("failed to start config watcher")
		}
		defer a.cfgHolder.Stop()

		applyCh := make(chan config.AppConfig, 1)
		a.cfgHolder.RegisterListener(applyCh)
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case cfg := <-applyCh:
					a.applyConfig(cfg)
				}
			}
		})

		if a.reloadSignal != nil {
			g.Go(func() error {
				hupChan := make(chan os.Signal, 1)
				signal.Notify(hupChan, a.reloadSignal)
				defer signal.Stop(hupChan)

				for {
					select {
					case <-ctx.Done():
						return nil
					case <-hupChan:
						a.logger.Info().Str("event", "config.reload_signal").Msg("received reload signal, reloading config")
						if err := a.cfgHolder.Reload(); err != nil {
							a.logger.Warn().Err(err).Str("event", "config.reload_failed").Msg("config reload failed")
						}
					}
				}
			})
		}
	}

	if a.workload != nil {
		g.Go(func() error {
			err := a.workload(ctx)
			cancel()
			return err
		})
	}

	g.Go(func() error {
		return a.manager.Start(ctx)
	})

	return g.Wait()
}

// applyConfig takes over the settings that can change at runtime.
func (a *App) applyConfig(cfg config.AppConfig) {
	if err := rklog.SetLevel(cfg.LogLevel); err != nil {
		a.logger.Warn().Err(err).Str("level", cfg.LogLevel).Msg("ignoring invalid log level")
		return
	}
	a.logger.Info().Str("event", "config.applied").Str("level", cfg.LogLevel).Msg("applied reloaded config")
}
