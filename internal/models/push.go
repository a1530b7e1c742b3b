// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package models

// PushData is the data payload delivered alongside a push notification.
//
// IssueID is the contract the new-issue tracker depends on: any relay must
// preserve it verbatim for the client-side "new issue" badge to work.
type PushData struct {
	ProjectName         string `json:"projectName"`
	IssueID             string `json:"issueId"`
	EventID             string `json:"eventId,omitempty"`
	Level               string `json:"level,omitempty"`
	Timestamp           string `json:"timestamp,omitempty"`
	DisplayInForeground bool   `json:"_displayInForeground"`
}

// PushMessage is one message posted to the Expo push gateway.
type PushMessage struct {
	To    string   `json:"to"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Sound string   `json:"sound,omitempty"`
	Data  PushData `json:"data"`
}

// PushTicket is the per-message receipt returned by the push gateway.
// Status is "ok" or "error"; Message and Details are populated on error.
type PushTicket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}
