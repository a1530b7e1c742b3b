// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package models defines the shared data types flowing through the pipeline:
// projects, issues, events, resolved geolocations, and push-notification
// payloads.
//
// The JSON tags on Issue and Event mirror the Sentry REST API wire format so
// responses decode directly into these types. Location is a normalized view of
// the geolocation provider's response; DefaultLocation() is the stand-in used
// whenever resolution fails, so downstream code never branches on "missing".
package models
