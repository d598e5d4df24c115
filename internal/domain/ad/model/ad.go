// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"errors"
	"time"
)

// MinButtonDelay is the floor applied to the skip and exit button delays.
const MinButtonDelay = time.Second

// ErrMissingAdID marks an ad record without an identity.
var ErrMissingAdID = errors.New("ad: missing _id")

// Ad is a creative served by the ad server. It is immutable once received and
// passed around as *Ad so that exactly one component holds it at a time.
type Ad struct {
	ID             string    `json:"_id"`
	PerformerName  string    `json:"performerName"`
	AdName         string    `json:"name"`
	PerformerEmail string    `json:"performerEmail"`
	Details        AdDetails `json:"adDetails"`
}

// AdDetails carries the playback parameters of an ad.
// SkipTime and ExitTime are seconds after playback starts.
type AdDetails struct {
	VideoURL  string      `json:"videoUrl"`
	TargetURL string      `json:"targetUrl"`
	Budget    LooseString `json:"budget"`
	SkipTime  Seconds     `json:"skipTime"`
	ExitTime  Seconds     `json:"exitTime"`
}

// Validate reports whether the record can be owned by the SDK.
func (a *Ad) Validate() error {
	if a == nil || a.ID == "" {
		return ErrMissingAdID
	}
	return nil
}

// SkipDelay is the time before the skip button may be offered.
func (a *Ad) SkipDelay() time.Duration {
	return buttonDelay(a.Details.SkipTime)
}

// ExitDelay is the time before the exit button may be offered.
func (a *Ad) ExitDelay() time.Duration {
	return buttonDelay(a.Details.ExitTime)
}

func buttonDelay(seconds Seconds) time.Duration {
	d := time.Duration(float64(seconds) * float64(time.Second))
	if d < MinButtonDelay {
		return MinButtonDelay
	}
	return d
}
