// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package geo resolves IP addresses to geolocations.
//
// Resolution order: persistent cache, then a provider lookup released through
// the request throttle. Resolve never fails outward; any miss, provider error,
// or non-2xx response yields the fixed default location so the enrichment
// pipeline never branches on a missing location. Failed lookups are not
// cached, so a later resolve retries the network.
package geo
