// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package adsource talks to the remote ad server over HTTP.
package adsource

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/rewardkit/internal/domain/ad/model"
	"github.com/ManuGH/rewardkit/internal/domain/ad/ports"
	rklog "github.com/ManuGH/rewardkit/internal/log"
	"github.com/ManuGH/rewardkit/internal/metrics"
	"github.com/ManuGH/rewardkit/internal/telemetry"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 5
	defaultRateBurst = 10
	defaultUserAgent = "rewardkit"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 1 << 20

	pathRandomAd = "ads/random"
	pathAdEvent  = "ad_event"

	headerRequestID = "X-Request-ID"
)

// Config configures the HTTP client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	UserAgent string
	Logger    *zerolog.Logger
}

// Client implements ports.AdSource and ports.EventSink against the ad server.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     zerolog.Logger
}

var (
	_ ports.AdSource  = (*Client)(nil)
	_ ports.EventSink = (*Client)(nil)
)

// New validates cfg and builds a client. BaseURL must be an absolute http(s) URL.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be absolute http(s)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = defaultRateBurst
	}
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	logger := rklog.WithComponent("adsource")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		TLSHandshakeTimeout:   5 * time.Second,
	}

	return &Client{
		base: base,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		limiter:   rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		userAgent: cfg.UserAgent,
		logger:    logger.With().Str(rklog.FieldBaseURL, base.Redacted()).Logger(),
	}, nil
}

// FetchRandomAd asks the server for an ad for requesterID.
// An empty answer (204, 404, empty or null body) is reported as ports.ErrNoAd.
func (c *Client) FetchRandomAd(ctx context.Context, requesterID string) (*model.Ad, error) {
	const op = "fetch_ad"

	u := c.base.JoinPath(pathRandomAd)
	q := u.Query()
	q.Set("packageName", requesterID)
	u.RawQuery = q.Encode()

	ctx = rklog.ContextWithRequester(ctx, requesterID)
	ctx, span := telemetry.Tracer("rewardkit.adsource").Start(ctx, "adsource.fetch_ad", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	start := time.Now()
	ad, status, err := c.fetch(ctx, u)
	metrics.ObserveSourceRequest(op, resultLabel(err), time.Since(start))

	adID := ""
	if ad != nil {
		adID = ad.ID
	}
	span.SetAttributes(telemetry.HTTPAttributes(http.MethodGet, "/"+pathRandomAd, u.Redacted(), status)...)
	span.SetAttributes(telemetry.FetchAttributes(requesterID, string(ports.Classify(err)), adID)...)
	if ports.Classify(err) == ports.OutcomeFailure {
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(resultLabel(err))...)
		span.SetStatus(codes.Error, resultLabel(err))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return ad, err
}

func (c *Client) fetch(ctx context.Context, u *url.URL) (*model.Ad, int, error) {
	const op = "fetch_ad"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, &SourceError{Sentinel: ErrUnavailable, Operation: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, transportError(op, err)
	}

	switch {
	case resp.StatusCode == http.StatusNoContent, resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, fmt.Errorf("adsource: HTTP %d: %w", resp.StatusCode, ports.ErrNoAd)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, resp.StatusCode, &SourceError{
			Sentinel:  ErrUpstream,
			Operation: op,
			Status:    resp.StatusCode,
			Body:      snippet(body),
		}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, resp.StatusCode, fmt.Errorf("adsource: empty body: %w", ports.ErrNoAd)
	}

	var ad model.Ad
	if err := json.Unmarshal(trimmed, &ad); err != nil {
		return nil, resp.StatusCode, &SourceError{Sentinel: ErrBadResponse, Operation: op, Status: resp.StatusCode, Err: err}
	}
	if err := ad.Validate(); err != nil {
		return nil, resp.StatusCode, &SourceError{Sentinel: ErrBadResponse, Operation: op, Status: resp.StatusCode, Err: err}
	}
	return &ad, resp.StatusCode, nil
}

// SendEvent posts one analytics event. Any non-2xx answer is an error.
func (c *Client) SendEvent(ctx context.Context, ev model.Event) error {
	const op = "send_event"

	ctx = rklog.ContextWithRequester(ctx, ev.Details.PackageName)
	ctx, span := telemetry.Tracer("rewardkit.adsource").Start(ctx, "adsource.send_event", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(telemetry.EventAttributes(ev.AdID, ev.Details.PackageName, string(ev.Details.EventType))...)

	start := time.Now()
	status, err := c.send(ctx, ev)
	metrics.ObserveSourceRequest(op, resultLabel(err), time.Since(start))

	u := c.base.JoinPath(pathAdEvent)
	span.SetAttributes(telemetry.HTTPAttributes(http.MethodPost, "/"+pathAdEvent, u.Redacted(), status)...)
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(resultLabel(err))...)
		span.SetStatus(codes.Error, resultLabel(err))
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (c *Client) send(ctx context.Context, ev model.Event) (int, error) {
	const op = "send_event"

	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, &SourceError{Sentinel: ErrBadResponse, Operation: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.JoinPath(pathAdEvent).String(), bytes.NewReader(payload))
	if err != nil {
		return 0, &SourceError{Sentinel: ErrUnavailable, Operation: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &SourceError{
			Sentinel:  ErrUpstream,
			Operation: op,
			Status:    resp.StatusCode,
			Body:      snippet(body),
		}
	}
	return resp.StatusCode, nil
}

// do applies the outbound rate limit and common headers, then sends req.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(op, err)
	}

	requestID := rklog.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(headerRequestID, requestID)
	req.Header.Set("User-Agent", c.userAgent)

	logger := rklog.WithContext(rklog.ContextWithRequestID(ctx, requestID), c.logger)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str(rklog.FieldEvent, op).Msg("ad server request failed")
		return nil, transportError(op, err)
	}
	logger.Debug().
		Str(rklog.FieldEvent, op).
		Int(rklog.FieldStatus, resp.StatusCode).
		Msg("ad server request")
	return resp, nil
}

func snippet(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}
