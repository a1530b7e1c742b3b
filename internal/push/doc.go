// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package push delivers notifications through the Expo push gateway and keeps
// the registry of device push tokens the relay fans out to.
package push
