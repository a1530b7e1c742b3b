// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sync

import "sync"

// Tracker remembers which issue IDs arrived via webhook notifications since
// they were last acknowledged, keyed by project name. The UI uses it to badge
// unseen issues; marks survive project re-syncs and are cleared explicitly.
type Tracker struct {
	mu       sync.RWMutex
	byProject map[string]map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byProject: make(map[string]map[string]struct{})}
}

// MarkNew records an issue ID as new for the project. Marking the same ID
// twice is a no-op.
func (t *Tracker) MarkNew(project, issueID string) {
	if project == "" || issueID == "" {
		return
	}
	t.mu.Lock()
	ids, ok := t.byProject[project]
	if !ok {
		ids = make(map[string]struct{})
		t.byProject[project] = ids
	}
	ids[issueID] = struct{}{}
	t.mu.Unlock()
}

// IsNew reports whether the issue is currently marked new for the project.
func (t *Tracker) IsNew(project, issueID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.byProject[project][issueID]
	return ok
}

// IDs returns the issue IDs currently marked new for the project. The slice
// is a copy with no defined order.
func (t *Tracker) IDs(project string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := t.byProject[project]
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// Count returns how many issues are marked new for the project.
func (t *Tracker) Count(project string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byProject[project])
}

// Clear removes one issue's mark. Clearing an unmarked issue is a no-op.
func (t *Tracker) Clear(project, issueID string) {
	t.mu.Lock()
	delete(t.byProject[project], issueID)
	t.mu.Unlock()
}

// ClearAll removes every mark for the project.
func (t *Tracker) ClearAll(project string) {
	t.mu.Lock()
	delete(t.byProject, project)
	t.mu.Unlock()
}
