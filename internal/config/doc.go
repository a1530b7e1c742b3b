// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package config loads and validates application configuration.
//
// Configuration is layered with koanf: struct defaults first, then an optional
// YAML file (config.yaml, or the path in ISSUEMAP_CONFIG), then environment
// variables prefixed ISSUEMAP_ (ISSUEMAP_SENTRY_TOKEN maps to sentry.token).
// The merged result is validated with go-playground/validator struct tags
// before it is handed to the rest of the application.
package config
