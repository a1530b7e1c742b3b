// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package geocache persists resolved geolocations keyed by the literal IP
// address string.
//
// Entries carry no TTL; a cached IP stays cached for the life of the store.
// Values are the raw provider JSON, decoded on read, so a provider response
// caches without an intermediate re-marshal. The Badger-backed implementation
// is the production store; the in-memory one serves tests.
package geocache
