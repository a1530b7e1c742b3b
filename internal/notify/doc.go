// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package notify carries webhook notifications from the relay to the rest of
// the pipeline over an in-process message bus. The relay publishes one
// message per reported issue; subscribers mark the issue as new and, when
// configured, trigger a re-sync of its project.
package notify
