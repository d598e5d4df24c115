// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Command adsim drives the ad SDK against a real or mock ad server with a
// simulated video surface, serving metrics and health probes while it runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ManuGH/rewardkit/adsdk"
	"github.com/ManuGH/rewardkit/internal/adsource"
	"github.com/ManuGH/rewardkit/internal/config"
	"github.com/ManuGH/rewardkit/internal/daemon"
	"github.com/ManuGH/rewardkit/internal/health"
	rklog "github.com/ManuGH/rewardkit/internal/log"
	"github.com/ManuGH/rewardkit/internal/telemetry"
	"github.com/ManuGH/rewardkit/internal/version"
)

const defaultPackageName = "com.example.adsim"

type options struct {
	configPath string
	mock       bool
	cycles     int
	watch      time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout))
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("adsim", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var opts options
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.StringVar(&opts.configPath, "config", "", "path to config file (YAML)")
	fs.BoolVar(&opts.mock, "mock", false, "serve ads from an in-process mock server")
	fs.IntVar(&opts.cycles, "cycles", 5, "number of ads to show, 0 runs until interrupted")
	fs.DurationVar(&opts.watch, "watch", 3*time.Second, "simulated viewing time per ad")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		_, _ = fmt.Fprintln(stdout, version.String())
		return 0
	}

	// ENV > File > Defaults
	loader := config.NewLoader(strings.TrimSpace(opts.configPath), version.Version)
	cfg, err := loader.Load()
	rklog.Configure(rklog.Config{Level: cfg.LogLevel, Service: cfg.LogService})
	logger := rklog.WithComponent("adsim")
	if err != nil {
		logger.Error().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", opts.configPath).
			Msg("failed to load configuration")
		return 1
	}

	if err := simulate(ctx, cfg, loader, opts); err != nil {
		logger.Error().Err(err).Msg("adsim failed")
		return 1
	}
	return 0
}

func simulate(ctx context.Context, cfg config.AppConfig, loader *config.Loader, opts options) error {
	logger := rklog.WithComponent("adsim")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	var mock *adsource.MockServer
	if opts.mock {
		mock = adsource.NewMockServer(adsource.DefaultAds()...)
		cfg.Server.BaseURL = mock.URL
		logger.Info().Str(rklog.FieldBaseURL, mock.URL).Msg("using mock ad server")
	}

	sdk, err := adsdk.NewFromConfig(cfg)
	if err != nil {
		if mock != nil {
			mock.Close()
		}
		_ = tp.Shutdown(context.Background())
		return err
	}

	hm := health.NewManager(cfg.Version)
	for _, c := range sdk.HealthCheckers() {
		hm.RegisterChecker(c)
	}

	mgr, err := daemon.NewManager(daemon.Deps{
		Logger:     rklog.WithComponent("daemon"),
		ListenAddr: cfg.Debug.ListenAddr,
		Handler:    daemon.NewDebugRouter(hm, daemon.DefaultRateLimit()),
	})
	if err != nil {
		return err
	}
	// LIFO: the SDK flushes its events before the mock server and the
	// tracer go away.
	mgr.RegisterShutdownHook("telemetry", tp.Shutdown)
	if mock != nil {
		mgr.RegisterShutdownHook("mock_server", func(context.Context) error {
			mock.Close()
			return nil
		})
	}
	mgr.RegisterShutdownHook("sdk", sdk.Close)

	packageName := cfg.PackageName
	if packageName == "" {
		packageName = defaultPackageName
	}
	sim := newSimulator(sdk, packageName, opts.cycles, opts.watch)

	holder := config.NewHolder(cfg, loader, opts.configPath)
	app := daemon.NewApp(logger, mgr, holder, sim.Run)
	return app.Run(ctx)
}
