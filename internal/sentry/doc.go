// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package sentry is the client for the upstream issue-tracking API.
//
// The Client speaks the Sentry REST API with a static bearer token: project
// lists, per-project issue lists (following cursor pagination through Link
// headers), per-issue event lists, and the resolve/archive mutation.
// BreakerClient wraps it with a circuit breaker so a degraded upstream fails
// fast instead of piling up requests.
package sentry
