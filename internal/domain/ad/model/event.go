// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the wire format of Event.Timestamp (UTC, milliseconds).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// EventType classifies an analytics event.
type EventType string

const (
	EventView  EventType = "view"
	EventClick EventType = "click"
	EventSkip  EventType = "skip"
	EventExit  EventType = "exit"
)

// IsTerminal reports whether the event type summarises how a display ended.
// Click is reported independently of the terminal slot.
func (t EventType) IsTerminal() bool {
	switch t {
	case EventView, EventSkip, EventExit:
		return true
	}
	return false
}

// ParseEventType validates a wire value.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventView, EventClick, EventSkip, EventExit:
		return t, nil
	}
	return "", fmt.Errorf("unknown event type %q", s)
}

// Event is a single analytics record. It is transient: built per interaction,
// handed to the sink and dropped.
type Event struct {
	AdID      string       `json:"adId"`
	Timestamp string       `json:"timestamp"`
	Details   EventDetails `json:"eventDetails"`
}

// EventDetails is the nested payload of an Event.
type EventDetails struct {
	PackageName   string    `json:"packageName"`
	EventType     EventType `json:"eventType"`
	WatchDuration float64   `json:"watchDuration"`
}

// NewEvent builds an event stamped with now in UTC.
func NewEvent(adID, packageName string, eventType EventType, watchSeconds float64, now time.Time) Event {
	if watchSeconds < 0 {
		watchSeconds = 0
	}
	return Event{
		AdID:      adID,
		Timestamp: FormatTimestamp(now),
		Details: EventDetails{
			PackageName:   packageName,
			EventType:     eventType,
			WatchDuration: watchSeconds,
		},
	}
}

// FormatTimestamp renders t in the event wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
