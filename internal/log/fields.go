// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldAdID        = "ad_id"
	FieldPackageName = "package_name"
	FieldSessionID   = "session_id"
	FieldRequestID   = "request_id"

	// Process fields
	FieldEvent      = "event"
	FieldComponent  = "component"
	FieldGeneration = "generation"

	// Analytics fields
	FieldEventType     = "event_type"
	FieldWatchDuration = "watch_duration_s"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Retry fields
	FieldBackoff = "backoff"
	FieldOutcome = "outcome"

	// Network fields
	FieldBaseURL = "base_url"
	FieldStatus  = "status"
)
