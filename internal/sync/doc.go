// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package sync drives the project synchronization pipeline: it fetches issue
// lists from the Sentry API, classifies issues into per-project buckets,
// enriches their events with geolocation data, and tracks issues reported as
// new by webhook notifications.
//
// One sync cycle per project runs at a time. A project is marked loaded as
// soon as its issue list has been classified and enrichment dispatched;
// enrichment then streams event locations into the store in the background.
package sync
