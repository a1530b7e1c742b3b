// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package relay is the HTTP surface of the pipeline. It receives Sentry
// webhook notifications, fans them out to registered devices through the push
// gateway, publishes them on the internal bus, and exposes the device-token
// registry, the project read API, and the health and metrics endpoints.
package relay
