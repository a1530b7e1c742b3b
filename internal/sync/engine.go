// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jcastanov/issuemap/internal/config"
	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/metrics"
	"github.com/jcastanov/issuemap/internal/models"
	"github.com/jcastanov/issuemap/internal/sentry"
	"github.com/jcastanov/issuemap/internal/store"
)

// Engine runs sync cycles against the Sentry API and writes the results into
// the store.
//
// At most one cycle per project runs at a time: a second Sync call for a
// project already in flight returns immediately without touching the store.
// Enrichment runs in the background after the cycle completes; Wait blocks
// until all dispatched enrichment has drained.
type Engine struct {
	api      sentry.API
	enricher *Enricher
	store    *store.Store
	tracker  *Tracker
	cfg      *config.Config

	mu       sync.Mutex
	inflight map[string]struct{}

	wg sync.WaitGroup
}

// NewEngine wires a sync engine.
func NewEngine(api sentry.API, enricher *Enricher, st *store.Store, tracker *Tracker, cfg *config.Config) *Engine {
	return &Engine{
		api:      api,
		enricher: enricher,
		store:    st,
		tracker:  tracker,
		cfg:      cfg,
		inflight: make(map[string]struct{}),
	}
}

// SyncProjects refreshes the organization's project list. Projects already in
// the store keep their buckets and loaded state.
func (e *Engine) SyncProjects(ctx context.Context) error {
	e.store.SetLoading(true)
	defer e.store.SetLoading(false)

	var projects []*models.Project
	err := e.retryWithBackoff(ctx, func() error {
		var ferr error
		projects, ferr = e.api.ListProjects(ctx)
		return ferr
	})
	if err != nil {
		e.store.SetSyncError(fmt.Sprintf("fetching projects: %v", err))
		return fmt.Errorf("fetching projects: %w", err)
	}

	e.store.SetProjects(projects)
	logging.Info().Int("projects", len(projects)).Msg("Project list synced")
	return nil
}

// Sync runs one full cycle for the project: reset loaded data, fetch the
// issue list, classify every issue into its bucket, dispatch background
// enrichment, and mark the project loaded.
//
// The reset happens only after the in-flight check, so a skipped duplicate
// call never clobbers a cycle in progress. A fetch failure leaves the project
// unloaded with the error recorded on the store.
func (e *Engine) Sync(ctx context.Context, name string) error {
	if !e.begin(name) {
		logging.Debug().Str("project", name).Msg("Sync already in flight, skipping")
		return nil
	}
	defer e.end(name)

	start := time.Now()
	defer func() {
		metrics.SyncDuration.Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Sync.Timeout)
	defer cancel()

	p, err := e.store.Project(name)
	if err != nil {
		return err
	}
	if err := e.store.ResetLoadedData(name); err != nil {
		return err
	}

	issues, err := e.fetchIssues(ctx, name, sentry.ScopeDefault)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		e.classify(p.ID, issue)
	}
	if err := e.store.MarkLoaded(name); err != nil {
		return err
	}

	logging.Info().
		Str("project", name).
		Int("issues", len(issues)).
		Dur("elapsed", time.Since(start)).
		Msg("Project synced")
	return nil
}

// SyncArchived merges the project's archived issues into the buckets. It runs
// once per project per session; later calls are no-ops until the store is
// cleared. Archived issues classify by level like live ones, and the
// idempotent store merge drops any ID already present.
func (e *Engine) SyncArchived(ctx context.Context, name string) error {
	p, err := e.store.Project(name)
	if err != nil {
		return err
	}
	if p.ArchivesFetched {
		logging.Debug().Str("project", name).Msg("Archives already fetched, skipping")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Sync.Timeout)
	defer cancel()

	issues, err := e.fetchIssues(ctx, name, sentry.ScopeArchived)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		e.classify(p.ID, issue)
	}
	if err := e.store.MarkArchivesFetched(name); err != nil {
		return err
	}

	logging.Info().Str("project", name).Int("archived", len(issues)).Msg("Archived issues merged")
	return nil
}

// Archive resolves the issue upstream and clears its new-issue mark. The
// store entry is left in place; the next sync cycle drops it.
func (e *Engine) Archive(ctx context.Context, projectName, issueID string) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Sentry.Timeout)
	defer cancel()

	if err := e.api.ResolveIssue(ctx, issueID); err != nil {
		return fmt.Errorf("resolving issue %s: %w", issueID, err)
	}
	e.tracker.Clear(projectName, issueID)
	logging.Info().Str("project", projectName).Str("issue", issueID).Msg("Issue archived")
	return nil
}

// Wait blocks until all background enrichment dispatched so far has drained.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) fetchIssues(ctx context.Context, name, scope string) ([]*models.Issue, error) {
	var issues []*models.Issue
	err := e.retryWithBackoff(ctx, func() error {
		var ferr error
		issues, ferr = e.api.ListIssues(ctx, name, scope)
		return ferr
	})
	if err != nil {
		metrics.SyncErrors.WithLabelValues(name).Inc()
		e.store.SetSyncError(fmt.Sprintf("syncing %s: %v", name, err))
		return nil, fmt.Errorf("listing issues for %s: %w", name, err)
	}
	return issues, nil
}

// classify routes one issue into its bucket and dispatches enrichment for it.
func (e *Engine) classify(projectID string, issue *models.Issue) {
	if issue.IsError() {
		if err := e.store.AddError(projectID, issue); err != nil {
			logging.Warn().Err(err).Str("issue", issue.ID).Msg("Failed to store error issue")
			return
		}
		metrics.IssuesClassified.WithLabelValues("errors").Inc()
	} else {
		if err := e.store.AddIssue(projectID, issue); err != nil {
			logging.Warn().Err(err).Str("issue", issue.ID).Msg("Failed to store issue")
			return
		}
		metrics.IssuesClassified.WithLabelValues("issues").Inc()
	}
	e.dispatchEnrichment(projectID, issue)
}

// dispatchEnrichment enriches one issue in the background and attaches the
// result to the store. Failures are logged and leave the issue without
// events; the next sync cycle retries.
func (e *Engine) dispatchEnrichment(projectID string, issue *models.Issue) {
	if issue.Events != nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Sync.Timeout)
		defer cancel()

		events, err := e.enricher.Enrich(ctx, issue.ID)
		if err != nil {
			logging.Warn().Err(err).Str("issue", issue.ID).Msg("Enrichment failed")
			return
		}
		if err := e.store.AttachEvents(projectID, issue.ID, events); err != nil {
			logging.Warn().Err(err).Str("issue", issue.ID).Msg("Failed to attach events")
		}
	}()
}

func (e *Engine) begin(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.inflight[name]; ok {
		return false
	}
	e.inflight[name] = struct{}{}
	return true
}

func (e *Engine) end(name string) {
	e.mu.Lock()
	delete(e.inflight, name)
	e.mu.Unlock()
}
