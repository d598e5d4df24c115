// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	requesterKey
)

// ContextWithRequestID pins the X-Request-ID used for outbound calls.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the pinned request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// ContextWithRequester records the package name a call is made for.
func ContextWithRequester(ctx context.Context, packageName string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requesterKey, packageName)
}

// RequesterFromContext returns the recorded package name, or "".
func RequesterFromContext(ctx context.Context) string {
	return stringValue(ctx, requesterKey)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

// WithContext adds the correlation fields found in ctx to logger.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	rid, pkg := RequestIDFromContext(ctx), RequesterFromContext(ctx)
	if rid == "" && pkg == "" {
		return logger
	}
	b := logger.With()
	if rid != "" {
		b = b.Str(FieldRequestID, rid)
	}
	if pkg != "" {
		b = b.Str(FieldPackageName, pkg)
	}
	return b.Logger()
}
