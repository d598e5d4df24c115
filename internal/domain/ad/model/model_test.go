// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAd_DecodesWireShape(t *testing.T) {
	tests := []struct {
		name    string
		details string
		want    AdDetails
	}{
		{
			name:    "canonical",
			details: `"budget": "250", "skipTime": 5, "exitTime": 12.5`,
			want:    AdDetails{Budget: "250", SkipTime: 5, ExitTime: 12.5},
		},
		{
			name:    "numeric budget",
			details: `"budget": 1500, "skipTime": 5, "exitTime": 10`,
			want:    AdDetails{Budget: "1500", SkipTime: 5, ExitTime: 10},
		},
		{
			name:    "string times",
			details: `"budget": 99.5, "skipTime": "2.5", "exitTime": " 8 "`,
			want:    AdDetails{Budget: "99.5", SkipTime: 2.5, ExitTime: 8},
		},
		{
			name:    "nulls and missing",
			details: `"budget": null, "skipTime": null`,
			want:    AdDetails{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{
				"_id": "ad-1",
				"performerName": "Acme",
				"name": "Spring Sale",
				"performerEmail": "ads@acme.test",
				"adDetails": {
					"videoUrl": "https://cdn.test/v.mp4",
					"targetUrl": "https://acme.test",
					` + tt.details + `
				}
			}`

			var got Ad
			require.NoError(t, json.Unmarshal([]byte(raw), &got))

			tt.want.VideoURL = "https://cdn.test/v.mp4"
			tt.want.TargetURL = "https://acme.test"
			want := Ad{
				ID:             "ad-1",
				PerformerName:  "Acme",
				AdName:         "Spring Sale",
				PerformerEmail: "ads@acme.test",
				Details:        tt.want,
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("decoded ad mismatch (-want +got):\n%s", diff)
			}
			assert.NoError(t, got.Validate())
		})
	}
}

func TestAd_RejectsNonNumericTimes(t *testing.T) {
	for _, details := range []string{
		`{"skipTime": "soon"}`,
		`{"exitTime": ""}`,
		`{"skipTime": true}`,
		`{"budget": {"amount": 1}}`,
	} {
		var got AdDetails
		assert.Error(t, json.Unmarshal([]byte(details), &got), details)
	}
}

func TestLooseString_Boolean(t *testing.T) {
	var s LooseString
	require.NoError(t, json.Unmarshal([]byte(`true`), &s))
	assert.Equal(t, "true", s.String())
}

func TestAd_Validate(t *testing.T) {
	var nilAd *Ad
	assert.ErrorIs(t, nilAd.Validate(), ErrMissingAdID)
	assert.ErrorIs(t, (&Ad{}).Validate(), ErrMissingAdID)
}

func TestAd_ButtonDelaysHaveFloor(t *testing.T) {
	tests := []struct {
		name     string
		seconds  Seconds
		expected time.Duration
	}{
		{"zero", 0, time.Second},
		{"negative", -3, time.Second},
		{"below floor", 0.4, time.Second},
		{"whole seconds", 5, 5 * time.Second},
		{"fractional", 2.5, 2500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad := &Ad{Details: AdDetails{SkipTime: tt.seconds, ExitTime: tt.seconds}}
			assert.Equal(t, tt.expected, ad.SkipDelay())
			assert.Equal(t, tt.expected, ad.ExitDelay())
		})
	}
}

func TestNewEvent(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("CET", 3600))

	ev := NewEvent("ad-9", "com.example.game", EventSkip, 3.25, now)

	assert.Equal(t, "ad-9", ev.AdID)
	assert.Equal(t, "2026-03-04T04:06:07.891Z", ev.Timestamp)
	assert.Equal(t, EventDetails{PackageName: "com.example.game", EventType: EventSkip, WatchDuration: 3.25}, ev.Details)

	clamped := NewEvent("ad-9", "pkg", EventExit, -1, now)
	assert.Zero(t, clamped.Details.WatchDuration)
}

func TestEvent_EncodesWireShape(t *testing.T) {
	ev := NewEvent("ad-2", "pkg", EventView, 1.5, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"adId": "ad-2",
		"timestamp": "2026-01-02T03:04:05.000Z",
		"eventDetails": {"packageName": "pkg", "eventType": "view", "watchDuration": 1.5}
	}`, string(b))
}

func TestParseEventType(t *testing.T) {
	for _, s := range []string{"view", "click", "skip", "exit"} {
		got, err := ParseEventType(s)
		require.NoError(t, err)
		assert.Equal(t, EventType(s), got)
	}
	_, err := ParseEventType("impression")
	assert.Error(t, err)

	assert.True(t, EventView.IsTerminal())
	assert.True(t, EventSkip.IsTerminal())
	assert.True(t, EventExit.IsTerminal())
	assert.False(t, EventClick.IsTerminal())
}
