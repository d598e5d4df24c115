// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package controller

import (
	"context"
	"sync"
	"time"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
)

type fakePreload struct {
	mu          sync.Mutex
	ready       *model.Ad
	initialized []string
	takes       int
	schedules   int
}

func (p *fakePreload) Initialize(requesterID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initialized = append(p.initialized, requesterID)
}

func (p *fakePreload) HasReady() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready != nil
}

func (p *fakePreload) Take() *model.Ad {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.takes++
	p.schedules++
	ad := p.ready
	p.ready = nil
	return ad
}

func (p *fakePreload) ScheduleFetch() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.schedules++
}

func (p *fakePreload) put(ad *model.Ad) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = ad
}

func (p *fakePreload) counts() (takes, schedules int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.takes, p.schedules
}

// blockingSource hands out fetch results fed by the test.
type blockingSource struct {
	calls   chan string
	results chan fetchResult
}

type fetchResult struct {
	ad  *model.Ad
	err error
}

func newBlockingSource() *blockingSource {
	return &blockingSource{calls: make(chan string, 8), results: make(chan fetchResult, 8)}
}

func (s *blockingSource) FetchRandomAd(ctx context.Context, requesterID string) (*model.Ad, error) {
	s.calls <- requesterID
	select {
	case r := <-s.results:
		return r.ad, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type report struct {
	AdID      string
	Requester string
	Type      model.EventType
	Seconds   float64
}

type recordingReporter struct {
	mu      sync.Mutex
	reports []report
}

func (r *recordingReporter) Report(adID, requesterID string, eventType model.EventType, watchSeconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{adID, requesterID, eventType, watchSeconds})
}

func (r *recordingReporter) all() []report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]report(nil), r.reports...)
}

func (r *recordingReporter) terminal() []report {
	var out []report
	for _, rep := range r.all() {
		if rep.Type.IsTerminal() {
			out = append(out, rep)
		}
	}
	return out
}

type fakeSurface struct {
	mu           sync.Mutex
	presentation ports.Presentation
	presented    int
	presentErr   error
	position     time.Duration
	seeks        []time.Duration
	pauses       int
	plays        int
	closes       int
}

func (s *fakeSurface) Present(p ports.Presentation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presentation = p
	s.presented++
	return s.presentErr
}

func (s *fakeSurface) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pauses++
}

func (s *fakeSurface) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plays++
}

func (s *fakeSurface) SeekTo(pos time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks = append(s.seeks, pos)
}

func (s *fakeSurface) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *fakeSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
}

func (s *fakeSurface) signals() ports.Signals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presentation.Signals
}

// hostLog records callback invocations in order.
type hostLog struct {
	mu    sync.Mutex
	calls []string
	ads   []*model.Ad
}

func (h *hostLog) record(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, name)
}

func (h *hostLog) snapshot() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

func (h *hostLog) callbacks() Callbacks {
	return Callbacks{
		OnAdAvailable: func(ad *model.Ad) {
			h.mu.Lock()
			h.ads = append(h.ads, ad)
			h.mu.Unlock()
			h.record("available")
		},
		OnAdFinished:  func() { h.record("finished") },
		OnAdSkipped:   func() { h.record("skipped") },
		OnAdExited:    func() { h.record("exited") },
		OnNoAvailable: func(*model.Ad) { h.record("no_available") },
		OnError:       func(msg string) { h.record("error: " + msg) },
	}
}
