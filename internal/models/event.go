// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package models

// Tag is one key/value pair attached to an event.
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Query string `json:"query,omitempty"`
}

// User is the reporting user context attached to an event. IPAddress is the
// enrichment input; the remaining fields are passed through for display.
type User struct {
	ID        string `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	Username  string `json:"username,omitempty"`
	Name      string `json:"name,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// Event is one occurrence belonging to an Issue.
//
// Location is attached at most once per event: once set it is never re-fetched
// within a session, and events without a user IP keep it nil.
type Event struct {
	ID          string `json:"id"`
	EventID     string `json:"eventID"`
	GroupID     string `json:"groupID,omitempty"`
	ProjectID   string `json:"projectID,omitempty"`
	Title       string `json:"title,omitempty"`
	Message     string `json:"message"`
	Culprit     string `json:"culprit"`
	Platform    string `json:"platform"`
	DateCreated string `json:"dateCreated"`
	Tags        []Tag  `json:"tags"`
	User        *User  `json:"user,omitempty"`

	Location *Location `json:"location,omitempty"`
}

// HasResolvableIP reports whether the event carries a user IP address and no
// location yet, i.e. whether the enricher should resolve it.
func (e *Event) HasResolvableIP() bool {
	return e.User != nil && e.User.IPAddress != "" && e.Location == nil
}
