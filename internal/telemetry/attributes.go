// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by rewardkit spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"
	HTTPRequestIDKey  = "http.request_id"

	AdIDKey          = "ad.id"
	AdPackageNameKey = "ad.package_name"
	AdEventTypeKey   = "ad.event_type"
	AdOutcomeKey     = "ad.fetch_outcome"

	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// FetchAttributes describes an ad fetch. adID is empty unless an ad came back.
func FetchAttributes(packageName, outcome, adID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AdPackageNameKey, packageName),
		attribute.String(AdOutcomeKey, outcome),
	}
	if adID != "" {
		attrs = append(attrs, attribute.String(AdIDKey, adID))
	}
	return attrs
}

// EventAttributes describes an analytics event delivery.
func EventAttributes(adID, packageName, eventType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AdIDKey, adID),
		attribute.String(AdPackageNameKey, packageName),
		attribute.String(AdEventTypeKey, eventType),
	}
}

// ErrorAttributes tags a span with an error class.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("error", true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
