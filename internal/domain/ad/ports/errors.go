// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import "errors"

// ErrNoAd signals the server-reported empty result (inventory exhausted).
// It is expected and recoverable, not a failure.
var ErrNoAd = errors.New("no ad available")

// FetchOutcome classifies the result of a fetch for retry and callback policy.
type FetchOutcome string

const (
	OutcomeAd      FetchOutcome = "ad"
	OutcomeEmpty   FetchOutcome = "empty"
	OutcomeFailure FetchOutcome = "failure"
)

// Classify maps a fetch error to its outcome class.
func Classify(err error) FetchOutcome {
	switch {
	case err == nil:
		return OutcomeAd
	case errors.Is(err, ErrNoAd):
		return OutcomeEmpty
	default:
		return OutcomeFailure
	}
}
