// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package adsource

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
)

// MockServer is an in-process ad server for tests and local demos.
// Ads are served round-robin; with no ads configured it answers 204.
type MockServer struct {
	*httptest.Server

	mu        sync.Mutex
	ads       []model.Ad
	next      int
	failures  int
	delay     time.Duration
	events    []model.Event
	requests  []string
	requestID []string
}

// NewMockServer starts a mock server serving ads.
func NewMockServer(ads ...model.Ad) *MockServer {
	m := &MockServer{ads: ads}

	r := chi.NewRouter()
	r.Get("/ads/random", m.handleRandomAd)
	r.Post("/ad_event", m.handleEvent)

	m.Server = httptest.NewServer(r)
	return m
}

// DefaultAds returns a small creative set.
func DefaultAds() []model.Ad {
	return []model.Ad{
		{
			ID:             "65f1c0a2e4b0a1b2c3d4e5f6",
			PerformerName:  "Acme Games",
			AdName:         "Dragon Quest Spring Sale",
			PerformerEmail: "ads@acme.example",
			Details: model.AdDetails{
				VideoURL:  "https://cdn.example.com/ads/dragon.mp4",
				TargetURL: "https://acme.example/dragon",
				Budget:    "1500",
				SkipTime:  5,
				ExitTime:  15,
			},
		},
		{
			ID:             "65f1c0a2e4b0a1b2c3d4e5f7",
			PerformerName:  "Northwind",
			AdName:         "Coffee Rewards",
			PerformerEmail: "marketing@northwind.example",
			Details: model.AdDetails{
				VideoURL:  "https://cdn.example.com/ads/coffee.mp4",
				TargetURL: "https://northwind.example/rewards",
				Budget:    "800",
				SkipTime:  0.5,
				ExitTime:  10,
			},
		},
	}
}

// SetAds replaces the served ads. No ads means every fetch is empty.
func (m *MockServer) SetAds(ads ...model.Ad) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ads = ads
	m.next = 0
}

// SetFailures makes the next n requests answer 503.
func (m *MockServer) SetFailures(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
}

// SetDelay delays every response by d.
func (m *MockServer) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Events returns the events received so far.
func (m *MockServer) Events() []model.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Event(nil), m.events...)
}

// Requests returns the packageName of every ad request received so far.
func (m *MockServer) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

// RequestIDs returns the X-Request-ID headers seen so far.
func (m *MockServer) RequestIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requestID...)
}

// admit records the request and reports whether it should fail.
func (m *MockServer) admit(r *http.Request) (fail bool, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestID = append(m.requestID, r.Header.Get(headerRequestID))
	if m.failures > 0 {
		m.failures--
		return true, m.delay
	}
	return false, m.delay
}

func (m *MockServer) handleRandomAd(w http.ResponseWriter, r *http.Request) {
	fail, delay := m.admit(r)
	if !sleep(r, delay) {
		return
	}
	if fail {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	m.mu.Lock()
	m.requests = append(m.requests, r.URL.Query().Get("packageName"))
	if len(m.ads) == 0 {
		m.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	ad := m.ads[m.next%len(m.ads)]
	m.next++
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ad)
}

func (m *MockServer) handleEvent(w http.ResponseWriter, r *http.Request) {
	fail, delay := m.admit(r)
	if !sleep(r, delay) {
		return
	}
	if fail {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	var ev model.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}
	if _, err := model.ParseEventType(string(ev.Details.EventType)); err != nil || ev.AdID == "" {
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	w.WriteHeader(http.StatusCreated)
}

func sleep(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.Context().Done():
		return false
	}
}
