// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package metrics exposes Prometheus instrumentation for the pipeline.
//
// Metric families:
//
//   - geo_lookups_total{result}: geolocation provider lookups by outcome
//     (success, failure, default)
//   - geo_cache_hits_total / geo_cache_misses_total: persistent cache traffic
//   - throttle_queue_depth: jobs waiting in the request throttle
//   - sync_duration_seconds / sync_errors_total{project}: sync cycles
//   - issues_classified_total{bucket}: issues routed to issue/error buckets
//   - push_sends_total{status}: push-gateway deliveries
//   - webhook_requests_total{status}: relay webhook receipts
//   - circuit_breaker_state{name}: 0=closed 1=open 2=half-open
//
// All metrics register on the default registry and are served by the relay's
// /metrics endpoint.
package metrics
