// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package relay

import (
	"math"
	"time"

	"github.com/jcastanov/issuemap/internal/models"
	"github.com/jcastanov/issuemap/internal/notify"
)

// webhookPayload is the Sentry legacy webhook body. Only the fields the
// pipeline consumes are decoded.
type webhookPayload struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	ProjectName string `json:"project_name"`
	Message     string `json:"message"`
	Culprit     string `json:"culprit"`
	Level       string `json:"level"`
	URL         string `json:"url"`

	Event *webhookEvent `json:"event"`
}

type webhookEvent struct {
	EventID  string  `json:"event_id"`
	Level    string  `json:"level"`
	Received float64 `json:"received"`
}

// projectName prefers the explicit project_name field, falling back to the
// project slug older payloads carry.
func (p *webhookPayload) projectName() string {
	if p.ProjectName != "" {
		return p.ProjectName
	}
	return p.Project
}

func (p *webhookPayload) level() string {
	if p.Event != nil && p.Event.Level != "" {
		return p.Event.Level
	}
	return p.Level
}

func (p *webhookPayload) eventID() string {
	if p.Event == nil {
		return ""
	}
	return p.Event.EventID
}

// timestamp converts the event's received epoch to RFC 3339, "" when absent.
func (p *webhookPayload) timestamp() string {
	if p.Event == nil || p.Event.Received <= 0 {
		return ""
	}
	sec, frac := math.Modf(p.Event.Received)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC().Format(time.RFC3339)
}

// notification builds the bus message for this payload.
func (p *webhookPayload) notification() *notify.Notification {
	return &notify.Notification{
		ProjectName: p.projectName(),
		IssueID:     p.ID,
		EventID:     p.eventID(),
		Level:       p.level(),
		Timestamp:   p.timestamp(),
	}
}

// pushMessages builds one gateway message per device token. The issue ID is
// carried verbatim in data.issueId; the client's new-issue badge depends on
// it.
func (p *webhookPayload) pushMessages(tokens []string) []*models.PushMessage {
	body := p.Message
	if body == "" {
		body = p.Culprit
	}

	messages := make([]*models.PushMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, &models.PushMessage{
			To:    token,
			Title: p.projectName(),
			Body:  body,
			Sound: "default",
			Data: models.PushData{
				ProjectName:         p.projectName(),
				IssueID:             p.ID,
				EventID:             p.eventID(),
				Level:               p.level(),
				Timestamp:           p.timestamp(),
				DisplayInForeground: true,
			},
		})
	}
	return messages
}
