// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/jcastanov/issuemap/internal/logging"
)

// TopicIssueNotified carries one message per issue reported by a webhook.
const TopicIssueNotified = "issues.notified"

// Notification is the bus payload for one reported issue.
type Notification struct {
	ProjectName string `json:"projectName"`
	IssueID     string `json:"issueId"`
	EventID     string `json:"eventId,omitempty"`
	Level       string `json:"level,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// Marker records an issue as new for a project.
type Marker interface {
	MarkNew(project, issueID string)
}

// Syncer re-syncs one project. The engine's in-flight set makes overlapping
// calls safe.
type Syncer interface {
	Sync(ctx context.Context, name string) error
}

// Bus is the in-process pub/sub carrying issue notifications. Handlers run
// under a router with panic recovery and bounded redelivery.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
}

// NewBus builds the bus and its router. Register handlers before Run.
func NewBus() (*Bus, error) {
	logger := NewLoggerAdapter()

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}
	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          logger,
		}.Middleware,
	)

	return &Bus{pubsub: pubsub, router: router}, nil
}

// Publish emits one notification. Publishing never blocks on slow
// subscribers beyond the channel buffer.
func (b *Bus) Publish(n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubsub.Publish(TopicIssueNotified, msg)
}

// HandleNewIssues registers the subscriber that marks notified issues as new
// and optionally re-syncs their project.
func (b *Bus) HandleNewIssues(tracker Marker, syncer Syncer, autoSync bool) {
	b.router.AddNoPublisherHandler(
		"mark-new-issues",
		TopicIssueNotified,
		b.pubsub,
		newIssueHandler(tracker, syncer, autoSync),
	)
}

// Run starts the router and blocks until ctx is canceled.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running closes once the router is ready to deliver.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// Close shuts down the router and the underlying channel.
func (b *Bus) Close() error {
	if err := b.router.Close(); err != nil {
		return err
	}
	return b.pubsub.Close()
}

// newIssueHandler decodes notifications and applies them. Malformed payloads
// are dropped rather than redelivered.
func newIssueHandler(tracker Marker, syncer Syncer, autoSync bool) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var n Notification
		if err := json.Unmarshal(msg.Payload, &n); err != nil {
			logging.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed notification")
			return nil
		}
		if n.ProjectName == "" || n.IssueID == "" {
			logging.Warn().Str("message_id", msg.UUID).Msg("Dropping notification without project or issue")
			return nil
		}

		tracker.MarkNew(n.ProjectName, n.IssueID)
		logging.Debug().Str("project", n.ProjectName).Str("issue", n.IssueID).Msg("Issue marked new")

		if autoSync && syncer != nil {
			go func() {
				if err := syncer.Sync(context.Background(), n.ProjectName); err != nil {
					logging.Warn().Err(err).Str("project", n.ProjectName).Msg("Auto re-sync failed")
				}
			}()
		}
		return nil
	}
}
