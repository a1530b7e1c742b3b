// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package models

// Server status values reported by the health checker.
const (
	ServerStatusLive = "live"
	ServerStatusDown = "down"
)

// Project is the per-project view the pipeline maintains: the raw Sentry
// project fields plus the locally tracked sync state and the classified
// issue/error buckets.
//
// Name is the sync key (the Sentry issue-list endpoint is scoped by project
// name); ID is the merge key for store lookups coming from webhook payloads.
type Project struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Platform string `json:"platform"`

	// ServerStatus is set by the health checker, never by sync.
	ServerStatus string `json:"serverStatus,omitempty"`

	// Issues holds non-error-level items, Errors holds level=="error" items.
	// An issue ID appears in at most one bucket.
	Issues []*Issue `json:"issues"`
	Errors []*Issue `json:"errors"`

	// IsLoaded is true once a sync cycle has dispatched all enrichment work
	// for this project since the last reset. It is cleared together with the
	// buckets by ResetLoadedData.
	IsLoaded bool `json:"isLoaded"`

	// ArchivesFetched gates the archived-issue sync path the way IsLoaded
	// gates the main one.
	ArchivesFetched bool `json:"archivesFetched"`

	// LastUpdated is stamped when a sync cycle completes, ISO 8601.
	LastUpdated string `json:"lastUpdated"`
}

// ProjectRef is the back-reference each issue carries to its project.
type ProjectRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Platform string `json:"platform"`
}
