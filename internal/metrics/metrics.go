// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Geolocation resolver metrics
	GeoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_lookups_total",
			Help: "Total geolocation lookups by outcome",
		},
		[]string{"result"}, // "success", "failure", "default", "local"
	)

	GeoCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geo_cache_hits_total",
			Help: "Total geolocation cache hits",
		},
	)

	GeoCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geo_cache_misses_total",
			Help: "Total geolocation cache misses",
		},
	)

	// Request throttle metrics
	ThrottleQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "throttle_queue_depth",
			Help: "Jobs currently queued in the request throttle",
		},
	)

	ThrottleBatchesReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "throttle_batches_released_total",
			Help: "Total job batches released by the request throttle",
		},
	)

	// Sync engine metrics
	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of project sync cycles in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total failed project sync cycles",
		},
		[]string{"project"},
	)

	IssuesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issues_classified_total",
			Help: "Total issues routed into store buckets",
		},
		[]string{"bucket"}, // "issues", "errors"
	)

	EnrichmentFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "enrichment_failures_total",
			Help: "Total issues skipped because their event fetch failed",
		},
	)

	// HTTP server metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "path"},
	)

	// Push / relay metrics
	PushSends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_sends_total",
			Help: "Total push-gateway message deliveries by ticket status",
		},
		[]string{"status"}, // "ok", "error"
	)

	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total Sentry webhook receipts by response status",
		},
		[]string{"status"},
	)

	// Circuit breaker metrics (issue-tracking API client)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state: 0=closed, 1=open, 2=half-open",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Circuit breaker request outcomes",
		},
		[]string{"name", "outcome"}, // "success", "failure", "rejected"
	)
)
