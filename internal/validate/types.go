// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package validate

import (
	"strings"

	"github.com/rs/zerolog"
)

// LogLevel is a log level accepted in configuration.
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// fatal and panic are valid zerolog levels but would silence the SDK's own
// warnings, so they are not accepted from config.
var logLevels = map[LogLevel]zerolog.Level{
	LogLevelTrace: zerolog.TraceLevel,
	LogLevelDebug: zerolog.DebugLevel,
	LogLevelInfo:  zerolog.InfoLevel,
	LogLevelWarn:  zerolog.WarnLevel,
	LogLevelError: zerolog.ErrorLevel,
}

var ErrInvalidLogLevel = &Error{
	Field:   "logLevel",
	Message: "invalid log level (must be: trace, debug, info, warn, error)",
}

func (l LogLevel) IsValid() bool {
	_, ok := logLevels[l]
	return ok
}

// Zerolog maps l to the zerolog level; invalid levels map to info.
func (l LogLevel) Zerolog() zerolog.Level {
	if z, ok := logLevels[l]; ok {
		return z
	}
	return zerolog.InfoLevel
}

func (l LogLevel) String() string { return string(l) }

// ParseLogLevel accepts a level in any case, ignoring surrounding space.
func ParseLogLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if !level.IsValid() {
		return "", ErrInvalidLogLevel
	}
	return level, nil
}
