// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package middleware holds the HTTP middleware shared by the relay server:
// request ID propagation and Prometheus request instrumentation.
package middleware
