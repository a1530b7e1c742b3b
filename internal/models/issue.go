// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package models

// Issue levels and statuses used for classification and archival.
const (
	LevelError = "error"

	StatusUnresolved = "unresolved"
	StatusResolved   = "resolved"
	StatusArchived   = "archived"
)

// Issue is a deduplicated grouping of similar error reports fetched from the
// issue-tracking API. Level is the sole classification signal: level=="error"
// routes the issue to a project's errors bucket, anything else to issues.
//
// An Issue is created by a list-fetch response and mutated in place only to
// attach Events after enrichment.
type Issue struct {
	ID        string     `json:"id"`
	ShortID   string     `json:"shortId"`
	Title     string     `json:"title"`
	Culprit   string     `json:"culprit"`
	Level     string     `json:"level"`
	Status    string     `json:"status"`
	FirstSeen string     `json:"firstSeen"`
	LastSeen  string     `json:"lastSeen"`
	Count     string     `json:"count"`
	UserCount int        `json:"userCount"`
	Permalink string     `json:"permalink"`
	Project   ProjectRef `json:"project"`

	// Events is populated by the enricher; nil until enrichment completes.
	Events []*Event `json:"events,omitempty"`
}

// IsError reports whether the issue belongs in the errors bucket.
func (i *Issue) IsError() bool {
	return i.Level == LevelError
}
