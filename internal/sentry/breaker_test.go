// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sentry

import (
	"context"
	"errors"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jcastanov/issuemap/internal/models"
)

// fakeAPI fails every call until healthy is set.
type fakeAPI struct {
	healthy bool
	calls   int
}

var errUpstream = errors.New("upstream down")

func (f *fakeAPI) ListProjects(context.Context) ([]*models.Project, error) {
	f.calls++
	if !f.healthy {
		return nil, errUpstream
	}
	return []*models.Project{{ID: "p1", Name: "demo"}}, nil
}

func (f *fakeAPI) ListIssues(context.Context, string, string) ([]*models.Issue, error) {
	f.calls++
	if !f.healthy {
		return nil, errUpstream
	}
	return nil, nil
}

func (f *fakeAPI) ListEvents(context.Context, string) ([]*models.Event, error) {
	f.calls++
	if !f.healthy {
		return nil, errUpstream
	}
	return nil, nil
}

func (f *fakeAPI) ResolveIssue(context.Context, string) error {
	f.calls++
	if !f.healthy {
		return errUpstream
	}
	return nil
}

func TestBreakerPassesThroughWhenHealthy(t *testing.T) {
	api := &fakeAPI{healthy: true}
	b := NewBreakerClient(api)

	projects, err := b.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "demo" {
		t.Errorf("unexpected projects %+v", projects)
	}
}

func TestBreakerPropagatesUpstreamError(t *testing.T) {
	api := &fakeAPI{}
	b := NewBreakerClient(api)

	if _, err := b.ListIssues(context.Background(), "demo", ScopeDefault); !errors.Is(err, errUpstream) {
		t.Errorf("error = %v, expected upstream error", err)
	}
}

func TestBreakerOpensUnderSustainedFailure(t *testing.T) {
	api := &fakeAPI{}
	b := NewBreakerClient(api)

	// The trip policy needs at least 10 observed requests at >=60% failure.
	for i := 0; i < 12; i++ {
		_, _ = b.ListIssues(context.Background(), "demo", ScopeDefault)
	}

	_, err := b.ListIssues(context.Background(), "demo", ScopeDefault)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, expected open-state rejection", err)
	}

	// Once open, the upstream stops seeing traffic.
	calls := api.calls
	_, _ = b.ListIssues(context.Background(), "demo", ScopeDefault)
	if api.calls != calls {
		t.Errorf("open breaker still forwarded a request")
	}
}
