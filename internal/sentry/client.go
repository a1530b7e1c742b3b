// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sentry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/jcastanov/issuemap/internal/config"
	"github.com/jcastanov/issuemap/internal/models"
)

// Scope selects which slice of a project's issues to list.
const (
	ScopeDefault  = ""
	ScopeArchived = "archived"
)

// API is the surface the sync engine depends on; satisfied by Client and
// BreakerClient, and by fakes in tests.
type API interface {
	ListProjects(ctx context.Context) ([]*models.Project, error)
	ListIssues(ctx context.Context, projectName, scope string) ([]*models.Issue, error)
	ListEvents(ctx context.Context, issueID string) ([]*models.Event, error)
	ResolveIssue(ctx context.Context, issueID string) error
}

// Client talks to the Sentry REST API with a static bearer token.
type Client struct {
	client  *http.Client
	baseURL string
	org     string
	token   string
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.SentryConfig) *Client {
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		org:     cfg.Organization,
		token:   cfg.Token,
	}
}

// ListProjects fetches the organization's projects. Sync state fields start
// zeroed; the store owns them from here on.
func (c *Client) ListProjects(ctx context.Context) ([]*models.Project, error) {
	u := fmt.Sprintf("%s/organizations/%s/projects/", c.baseURL, c.org)

	var projects []*models.Project
	if _, err := c.getJSON(ctx, u, &projects); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	for _, p := range projects {
		if p.Issues == nil {
			p.Issues = []*models.Issue{}
		}
		if p.Errors == nil {
			p.Errors = []*models.Issue{}
		}
	}
	return projects, nil
}

// ListIssues fetches the full issue list for one project, following cursor
// pagination until the API reports no further results.
func (c *Client) ListIssues(ctx context.Context, projectName, scope string) ([]*models.Issue, error) {
	u := fmt.Sprintf("%s/projects/%s/%s/issues/", c.baseURL, c.org, url.PathEscape(projectName))
	if scope != "" {
		u += "?scope=" + url.QueryEscape(scope)
	}

	var all []*models.Issue
	for u != "" {
		var page []*models.Issue
		next, err := c.getJSON(ctx, u, &page)
		if err != nil {
			return nil, fmt.Errorf("list issues for %s: %w", projectName, err)
		}
		all = append(all, page...)
		u = next
	}
	return all, nil
}

// ListEvents fetches the events recorded for one issue.
func (c *Client) ListEvents(ctx context.Context, issueID string) ([]*models.Event, error) {
	u := fmt.Sprintf("%s/organizations/%s/issues/%s/events/", c.baseURL, c.org, url.PathEscape(issueID))

	var events []*models.Event
	if _, err := c.getJSON(ctx, u, &events); err != nil {
		return nil, fmt.Errorf("list events for issue %s: %w", issueID, err)
	}
	return events, nil
}

// ResolveIssue marks one issue resolved (the archive action). The error is
// surfaced to the caller; the UI keeps the issue in place until success.
func (c *Client) ResolveIssue(ctx context.Context, issueID string) error {
	u := fmt.Sprintf("%s/organizations/%s/issues/%s/", c.baseURL, c.org, url.PathEscape(issueID))

	body, err := json.Marshal(map[string]string{"status": models.StatusResolved})
	if err != nil {
		return fmt.Errorf("marshal resolve body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("resolve issue %s: %w", issueID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("resolve issue %s: status %d: %s", issueID, resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

// getJSON performs an authorized GET, decodes the body into out, and returns
// the next page URL from the Link header if the API reports more results.
func (c *Client) getJSON(ctx context.Context, u string, out any) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return nextPageURL(resp.Header.Get("Link")), nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
}

// nextPageURL extracts the rel="next" target from a Sentry Link header,
// returning "" when the header is absent or reports results="false".
func nextPageURL(header string) string {
	for _, part := range strings.Split(header, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		if strings.Contains(part, `results="false"`) {
			return ""
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start == -1 || end == -1 || end <= start+1 {
			return ""
		}
		return part[start+1 : end]
	}
	return ""
}

// readErrorBody returns a short excerpt of an error response for messages.
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil || len(body) == 0 {
		return "<no body>"
	}
	return strings.TrimSpace(string(body))
}
