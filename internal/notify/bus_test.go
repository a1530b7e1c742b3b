// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type recordingMarker struct {
	mu    sync.Mutex
	marks [][2]string
	ch    chan struct{}
}

func newRecordingMarker() *recordingMarker {
	return &recordingMarker{ch: make(chan struct{}, 16)}
}

func (m *recordingMarker) MarkNew(project, issueID string) {
	m.mu.Lock()
	m.marks = append(m.marks, [2]string{project, issueID})
	m.mu.Unlock()
	m.ch <- struct{}{}
}

func (m *recordingMarker) all() [][2]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][2]string, len(m.marks))
	copy(out, m.marks)
	return out
}

type recordingSyncer struct {
	mu       sync.Mutex
	projects []string
	ch       chan struct{}
}

func newRecordingSyncer() *recordingSyncer {
	return &recordingSyncer{ch: make(chan struct{}, 16)}
}

func (s *recordingSyncer) Sync(_ context.Context, name string) error {
	s.mu.Lock()
	s.projects = append(s.projects, name)
	s.mu.Unlock()
	s.ch <- struct{}{}
	return nil
}

func runBus(t *testing.T, tracker Marker, syncer Syncer, autoSync bool) *Bus {
	t.Helper()
	bus, err := NewBus()
	if err != nil {
		t.Fatal(err)
	}
	bus.HandleNewIssues(tracker, syncer, autoSync)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := bus.Run(ctx); err != nil {
			t.Errorf("router: %v", err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router never became ready")
	}
	return bus
}

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestPublishMarksIssueNew(t *testing.T) {
	tracker := newRecordingMarker()
	bus := runBus(t, tracker, nil, false)

	err := bus.Publish(&Notification{ProjectName: "demo", IssueID: "42"})
	if err != nil {
		t.Fatal(err)
	}

	waitSignal(t, tracker.ch, "mark")
	marks := tracker.all()
	if len(marks) != 1 || marks[0] != [2]string{"demo", "42"} {
		t.Errorf("marks = %v", marks)
	}
}

func TestAutoSyncOnNotify(t *testing.T) {
	tracker := newRecordingMarker()
	syncer := newRecordingSyncer()
	bus := runBus(t, tracker, syncer, true)

	if err := bus.Publish(&Notification{ProjectName: "demo", IssueID: "42"}); err != nil {
		t.Fatal(err)
	}

	waitSignal(t, tracker.ch, "mark")
	waitSignal(t, syncer.ch, "sync")

	syncer.mu.Lock()
	defer syncer.mu.Unlock()
	if len(syncer.projects) != 1 || syncer.projects[0] != "demo" {
		t.Errorf("synced projects = %v", syncer.projects)
	}
}

func TestAutoSyncDisabled(t *testing.T) {
	tracker := newRecordingMarker()
	syncer := newRecordingSyncer()
	bus := runBus(t, tracker, syncer, false)

	if err := bus.Publish(&Notification{ProjectName: "demo", IssueID: "42"}); err != nil {
		t.Fatal(err)
	}
	waitSignal(t, tracker.ch, "mark")

	select {
	case <-syncer.ch:
		t.Error("sync triggered despite autoSync=false")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestMalformedPayloadDropped(t *testing.T) {
	tracker := newRecordingMarker()
	bus := runBus(t, tracker, nil, false)

	msg := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	if err := bus.pubsub.Publish(TopicIssueNotified, msg); err != nil {
		t.Fatal(err)
	}
	// A valid message after the poison one proves the handler kept going.
	if err := bus.Publish(&Notification{ProjectName: "demo", IssueID: "42"}); err != nil {
		t.Fatal(err)
	}

	waitSignal(t, tracker.ch, "mark")
	marks := tracker.all()
	if len(marks) != 1 || marks[0][1] != "42" {
		t.Errorf("marks = %v, malformed payload must not mark anything", marks)
	}
}

func TestIncompleteNotificationDropped(t *testing.T) {
	tracker := newRecordingMarker()
	bus := runBus(t, tracker, nil, false)

	if err := bus.Publish(&Notification{ProjectName: "demo"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(&Notification{IssueID: "42"}); err != nil {
		t.Fatal(err)
	}
	if err := bus.Publish(&Notification{ProjectName: "demo", IssueID: "1"}); err != nil {
		t.Fatal(err)
	}

	waitSignal(t, tracker.ch, "mark")
	marks := tracker.all()
	if len(marks) != 1 || marks[0] != [2]string{"demo", "1"} {
		t.Errorf("marks = %v", marks)
	}
}
