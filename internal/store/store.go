// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/models"
)

// ErrProjectNotFound is returned when an action names an unknown project.
var ErrProjectNotFound = errors.New("store: project not found")

// Listener receives a notification after any store mutation.
type Listener func()

// Store is the injectable state container the pipeline reads and mutates.
type Store struct {
	mu        sync.RWMutex
	projects  []*models.Project
	loading   bool
	syncError string

	listenerMu sync.Mutex
	listeners  []Listener
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// OnChange registers a listener invoked after every mutation. Listeners run
// synchronously on the mutating goroutine and must not call back into the
// store's action methods.
func (s *Store) OnChange(l Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) notify() {
	s.listenerMu.Lock()
	ls := make([]Listener, len(s.listeners))
	copy(ls, s.listeners)
	s.listenerMu.Unlock()

	for _, l := range ls {
		l()
	}
}

// SetProjects replaces the project list, preserving loaded buckets and sync
// state for projects that already exist (matched by ID).
func (s *Store) SetProjects(projects []*models.Project) {
	s.mu.Lock()
	existing := make(map[string]*models.Project, len(s.projects))
	for _, p := range s.projects {
		existing[p.ID] = p
	}

	for _, p := range projects {
		if p.Issues == nil {
			p.Issues = []*models.Issue{}
		}
		if p.Errors == nil {
			p.Errors = []*models.Issue{}
		}
		if prev, ok := existing[p.ID]; ok {
			p.Issues = prev.Issues
			p.Errors = prev.Errors
			p.IsLoaded = prev.IsLoaded
			p.ArchivesFetched = prev.ArchivesFetched
			p.LastUpdated = prev.LastUpdated
			p.ServerStatus = prev.ServerStatus
		}
	}
	s.projects = projects
	s.mu.Unlock()
	s.notify()
}

// Projects returns a deep copy of the project list.
func (s *Store) Projects() []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = copyProject(p)
	}
	return out
}

// Project returns a deep copy of one project by name.
func (s *Store) Project(name string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.findByName(name)
	if p == nil {
		return nil, ErrProjectNotFound
	}
	return copyProject(p), nil
}

// AddIssue appends an enriched issue to the project's issues bucket. The
// merge is idempotent by issue ID: an ID already present in either bucket is
// a no-op, so repeated syncs without a reset cannot duplicate entries.
func (s *Store) AddIssue(projectID string, issue *models.Issue) error {
	return s.addItem(projectID, issue, false)
}

// AddError appends an enriched issue to the project's errors bucket with the
// same idempotent-merge semantics as AddIssue.
func (s *Store) AddError(projectID string, issue *models.Issue) error {
	return s.addItem(projectID, issue, true)
}

func (s *Store) addItem(projectID string, issue *models.Issue, isError bool) error {
	s.mu.Lock()
	p := s.findByID(projectID)
	if p == nil {
		s.mu.Unlock()
		return ErrProjectNotFound
	}

	if containsIssue(p.Issues, issue.ID) || containsIssue(p.Errors, issue.ID) {
		s.mu.Unlock()
		logging.Debug().Str("issue", issue.ID).Msg("issue already merged, skipping")
		return nil
	}

	if isError {
		p.Errors = append(p.Errors, issue)
	} else {
		p.Issues = append(p.Issues, issue)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// AttachEvents sets the event list on one issue wherever it appears in the
// project's buckets. Issues that already carry events are left alone.
func (s *Store) AttachEvents(projectID, issueID string, events []*models.Event) error {
	s.mu.Lock()
	p := s.findByID(projectID)
	if p == nil {
		s.mu.Unlock()
		return ErrProjectNotFound
	}

	for _, bucket := range [][]*models.Issue{p.Issues, p.Errors} {
		for _, issue := range bucket {
			if issue.ID == issueID && issue.Events == nil {
				issue.Events = events
			}
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// UpdateEventLocation attaches a location to one event wherever it appears
// in the project's buckets. Events with a location already set are left
// alone (location is attached at most once).
func (s *Store) UpdateEventLocation(projectID, eventID string, loc *models.Location) error {
	s.mu.Lock()
	p := s.findByID(projectID)
	if p == nil {
		s.mu.Unlock()
		return ErrProjectNotFound
	}

	for _, bucket := range [][]*models.Issue{p.Issues, p.Errors} {
		for _, issue := range bucket {
			for _, event := range issue.Events {
				if event.ID == eventID && event.Location == nil {
					event.Location = loc
				}
			}
		}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// MarkLoaded stamps a completed sync cycle for the project.
func (s *Store) MarkLoaded(name string) error {
	return s.updateByName(name, func(p *models.Project) {
		p.IsLoaded = true
		p.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	})
}

// MarkArchivesFetched records that the archived-issue path has merged.
func (s *Store) MarkArchivesFetched(name string) error {
	return s.updateByName(name, func(p *models.Project) {
		p.ArchivesFetched = true
	})
}

// SetServerStatus records the health checker's verdict for the project.
func (s *Store) SetServerStatus(name, status string) error {
	return s.updateByName(name, func(p *models.Project) {
		p.ServerStatus = status
	})
}

// UpdateProject applies an arbitrary mutation to the named project. The
// callback runs with the store lock held; it must not call back into the
// store.
func (s *Store) UpdateProject(name string, fn func(*models.Project)) error {
	return s.updateByName(name, fn)
}

// ResetLoadedData clears the project's buckets and its isLoaded flag in one
// mutation, the reset-before-refetch contract.
func (s *Store) ResetLoadedData(name string) error {
	logging.Debug().Str("project", name).Msg("resetting loaded data")
	return s.updateByName(name, func(p *models.Project) {
		p.Issues = []*models.Issue{}
		p.Errors = []*models.Issue{}
		p.IsLoaded = false
	})
}

// ClearData empties every project's buckets, keeping the project entries.
func (s *Store) ClearData() {
	s.mu.Lock()
	for _, p := range s.projects {
		p.Issues = []*models.Issue{}
		p.Errors = []*models.Issue{}
		p.IsLoaded = false
	}
	s.mu.Unlock()
	s.notify()
}

// SetLoading flips the global loading indicator.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

// Loading reports the global loading indicator.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetSyncError records a project-level sync failure for observers.
func (s *Store) SetSyncError(msg string) {
	s.mu.Lock()
	s.syncError = msg
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// SyncError returns the last recorded sync failure, "" when none.
func (s *Store) SyncError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncError
}

func (s *Store) updateByName(name string, fn func(*models.Project)) error {
	s.mu.Lock()
	p := s.findByName(name)
	if p == nil {
		s.mu.Unlock()
		return ErrProjectNotFound
	}
	fn(p)
	s.mu.Unlock()
	s.notify()
	return nil
}

// findByName must be called with the lock held.
func (s *Store) findByName(name string) *models.Project {
	for _, p := range s.projects {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// findByID must be called with the lock held.
func (s *Store) findByID(id string) *models.Project {
	for _, p := range s.projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func containsIssue(bucket []*models.Issue, id string) bool {
	for _, issue := range bucket {
		if issue.ID == id {
			return true
		}
	}
	return false
}

func copyProject(p *models.Project) *models.Project {
	cp := *p
	cp.Issues = copyIssues(p.Issues)
	cp.Errors = copyIssues(p.Errors)
	return &cp
}

func copyIssues(issues []*models.Issue) []*models.Issue {
	out := make([]*models.Issue, len(issues))
	for i, issue := range issues {
		ic := *issue
		ic.Events = make([]*models.Event, len(issue.Events))
		for j, event := range issue.Events {
			ec := *event
			ic.Events[j] = &ec
		}
		out[i] = &ic
	}
	return out
}
