// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package supervisor runs the long-lived parts of the pipeline under a suture
// supervision tree: the relay HTTP server, the notification bus router, and
// the periodic server health checker. A crash in one layer restarts that
// service without taking the others down.
package supervisor
