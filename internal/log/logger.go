// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/rewardkit/internal/validate"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	Service string    // optional service name attached to every log entry
}

var (
	once sync.Once
	base zerolog.Logger
)

// Configure initialises the global zerolog logger exactly once.
func Configure(cfg Config) {
	once.Do(func() {
		name := cfg.Level
		if name == "" {
			name = os.Getenv("REWARDKIT_LOG_LEVEL")
		}
		// unknown names fall back to info
		parsed, _ := validate.ParseLogLevel(name)
		zerolog.SetGlobalLevel(parsed.Zerolog())
		zerolog.TimeFieldFormat = time.RFC3339Nano

		writer := cfg.Output
		if writer == nil {
			writer = os.Stdout
		}

		service := cfg.Service
		if service == "" {
			service = os.Getenv("REWARDKIT_LOG_SERVICE")
			if service == "" {
				service = "rewardkit"
			}
		}

		base = zerolog.New(writer).With().
			Timestamp().
			Str("service", service).
			Logger()
	})
}

// SetLevel changes the global level after Configure has run.
// Unknown level names are rejected and leave the current level untouched.
func SetLevel(level string) error {
	parsed, err := validate.ParseLogLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(parsed.Zerolog())
	return nil
}

func logger() zerolog.Logger {
	Configure(Config{})
	return base
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}
