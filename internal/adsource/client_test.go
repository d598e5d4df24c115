// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package adsource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	rklog "github.com/ManuGH/rewardkit/internal/log"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	nop := zerolog.Nop()
	c, err := New(Config{BaseURL: baseURL, Timeout: time.Second, RateLimit: 1000, RateBurst: 1000, Logger: &nop})
	require.NoError(t, err)
	return c
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ad-server.local", "ftp://ads.example.com", "http://"} {
		_, err := New(Config{BaseURL: raw})
		assert.Error(t, err, raw)
	}
}

func TestFetchRandomAd(t *testing.T) {
	want := DefaultAds()[0]
	srv := NewMockServer(want)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.FetchRandomAd(context.Background(), "com.example.game")
	require.NoError(t, err)
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("ad mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"com.example.game"}, srv.Requests())
}

func TestFetchRandomAdSendsRequestID(t *testing.T) {
	srv := NewMockServer(DefaultAds()...)
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	_, err := c.FetchRandomAd(context.Background(), "pkg")
	require.NoError(t, err)
	ctx := rklog.ContextWithRequestID(context.Background(), "req-42")
	_, err = c.FetchRandomAd(ctx, "pkg")
	require.NoError(t, err)

	ids := srv.RequestIDs()
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.Equal(t, "req-42", ids[1])
}

func TestFetchRandomAdBaseURLWithPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api/")
	_, err := c.FetchRandomAd(context.Background(), "pkg")
	assert.ErrorIs(t, err, ports.ErrNoAd)
	assert.Equal(t, "/api/ads/random", gotPath)
}

func TestFetchRandomAdClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		outcome  ports.FetchOutcome
		sentinel error
	}{
		{"no content", http.StatusNoContent, "", ports.OutcomeEmpty, ports.ErrNoAd},
		{"not found", http.StatusNotFound, `{"error":"no ads"}`, ports.OutcomeEmpty, ports.ErrNoAd},
		{"empty body", http.StatusOK, "  ", ports.OutcomeEmpty, ports.ErrNoAd},
		{"null body", http.StatusOK, "null", ports.OutcomeEmpty, ports.ErrNoAd},
		{"server error", http.StatusInternalServerError, "boom", ports.OutcomeFailure, ErrUpstream},
		{"bad request", http.StatusBadRequest, "missing packageName", ports.OutcomeFailure, ErrUpstream},
		{"garbage", http.StatusOK, "<html>", ports.OutcomeFailure, ErrBadResponse},
		{"missing id", http.StatusOK, `{"name":"x"}`, ports.OutcomeFailure, ErrBadResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			ad, err := newTestClient(t, srv.URL).FetchRandomAd(context.Background(), "pkg")
			assert.Nil(t, ad)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.outcome, ports.Classify(err))
		})
	}
}

func TestFetchRandomAdLenientDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"_id":"a1","name":"Promo","adDetails":{"videoUrl":"https://cdn.test/a1.mp4","budget":1500,"skipTime":"5","exitTime":10}}`)
	}))
	defer srv.Close()

	ad, err := newTestClient(t, srv.URL).FetchRandomAd(context.Background(), "pkg")
	require.NoError(t, err)
	assert.Equal(t, model.LooseString("1500"), ad.Details.Budget)
	assert.Equal(t, 5*time.Second, ad.SkipDelay())
	assert.Equal(t, 10*time.Second, ad.ExitDelay())
}

func TestFetchRandomAdUnavailable(t *testing.T) {
	srv := NewMockServer()
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url).FetchRandomAd(context.Background(), "pkg")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, ports.OutcomeFailure, ports.Classify(err))
}

func TestFetchRandomAdTimeout(t *testing.T) {
	srv := NewMockServer(DefaultAds()...)
	defer srv.Close()
	srv.SetDelay(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := newTestClient(t, srv.URL).FetchRandomAd(ctx, "pkg")
	assert.ErrorIs(t, err, ErrTimeout)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "fetch_ad", srcErr.Operation)
}

func TestMockServerFailuresThenRecovers(t *testing.T) {
	srv := NewMockServer(DefaultAds()...)
	defer srv.Close()
	srv.SetFailures(1)
	c := newTestClient(t, srv.URL)

	_, err := c.FetchRandomAd(context.Background(), "pkg")
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	assert.Equal(t, http.StatusServiceUnavailable, srcErr.Status)

	ad, err := c.FetchRandomAd(context.Background(), "pkg")
	require.NoError(t, err)
	assert.Equal(t, DefaultAds()[0].ID, ad.ID)
}

func TestSendEvent(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	ev := model.NewEvent("ad-1", "com.example.game", model.EventView, 12.5, time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, c.SendEvent(context.Background(), ev))

	if diff := cmp.Diff([]model.Event{ev}, srv.Events()); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSendEventRejected(t *testing.T) {
	srv := NewMockServer()
	defer srv.Close()
	c := newTestClient(t, srv.URL)

	err := c.SendEvent(context.Background(), model.Event{AdID: "ad-1", Details: model.EventDetails{EventType: "impression"}})
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, srv.Events())
}

func TestSendEventWireFormat(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ev := model.NewEvent("ad-7", "pkg", model.EventSkip, 3, time.Date(2026, 5, 1, 10, 0, 0, 123_000_000, time.UTC))
	require.NoError(t, newTestClient(t, srv.URL).SendEvent(context.Background(), ev))
	assert.JSONEq(t, `{"adId":"ad-7","timestamp":"2026-05-01T10:00:00.123Z","eventDetails":{"packageName":"pkg","eventType":"skip","watchDuration":3}}`, body)
}
