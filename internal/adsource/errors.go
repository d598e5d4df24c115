// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package adsource

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUnavailable = errors.New("ad server: host unreachable or transport failure")
	ErrTimeout     = errors.New("ad server: request timed out")
	ErrUpstream    = errors.New("ad server: unexpected status")
	ErrBadResponse = errors.New("ad server: invalid response format or malformed data")
)

// SourceError wraps one of the sentinels with request context.
type SourceError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("adsource: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// transportError classifies an error returned by http.Client.Do.
func transportError(op string, err error) *SourceError {
	sentinel := ErrUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		sentinel = ErrTimeout
	}
	return &SourceError{Sentinel: sentinel, Operation: op, Err: err}
}

// resultLabel maps an error to the metrics label of a request.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ports.ErrNoAd):
		return "empty"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrBadResponse):
		return "bad_response"
	default:
		return "other"
	}
}
