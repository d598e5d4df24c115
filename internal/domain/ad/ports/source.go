// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import (
	"context"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

// AdSource is the remote fetch capability.
// FetchRandomAd returns a valid ad, ErrNoAd when the server has nothing to
// serve, or any other error for transport/decoding failures. Timeouts are the
// implementation's concern and surface as errors.
type AdSource interface {
	FetchRandomAd(ctx context.Context, requesterID string) (*model.Ad, error)
}

// EventSink delivers analytics events best-effort.
type EventSink interface {
	SendEvent(ctx context.Context, ev model.Event) error
}

// AdSourceFunc adapts a function to AdSource.
type AdSourceFunc func(ctx context.Context, requesterID string) (*model.Ad, error)

func (f AdSourceFunc) FetchRandomAd(ctx context.Context, requesterID string) (*model.Ad, error) {
	return f(ctx, requesterID)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, ev model.Event) error

func (f EventSinkFunc) SendEvent(ctx context.Context, ev model.Event) error {
	return f(ctx, ev)
}
