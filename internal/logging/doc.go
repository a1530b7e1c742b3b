// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package logging provides the zerolog-backed global logger used everywhere
// in issuemap.
//
// Initialize once at startup:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
// then log through the level helpers:
//
//	logging.Info().Str("project", name).Msg("sync started")
//	logging.Warn().Err(err).Str("ip", ip).Msg("geolocation fetch failed")
//
// Always terminate chains with .Msg() or .Send(); an unterminated chain is
// silently dropped. The package also exposes a slog.Handler adapter so
// libraries that speak log/slog (sutureslog) write through zerolog.
package logging
