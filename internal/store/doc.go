// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package store holds the normalized in-memory data model: projects with
// their classified issue/error buckets, enriched events, and sync state.
//
// All mutations go through explicit action methods serialized by one lock,
// so concurrent enrichment callbacks never interleave mid-mutation. Readers
// get defensive copies of the project tree. Change listeners registered with
// OnChange fire after each mutation; UI layers subscribe there.
//
// Callers must not assume read-then-write atomicity across their own await
// points; the sync engine's in-flight set exists for exactly that reason.
package store
