// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sync

import (
	"context"
	"net/http"
	"time"

	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/models"
	"github.com/jcastanov/issuemap/internal/store"
)

// HealthChecker probes per-project liveness URLs and records the verdict on
// the store. Projects without a configured URL are always reported live.
type HealthChecker struct {
	store  *store.Store
	urls   map[string]string
	client *http.Client
}

// NewHealthChecker wires a checker. urls maps project names to probe URLs.
func NewHealthChecker(st *store.Store, urls map[string]string, timeout time.Duration) *HealthChecker {
	return &HealthChecker{
		store:  st,
		urls:   urls,
		client: &http.Client{Timeout: timeout},
	}
}

// CheckAll probes every project in the store and records live or down.
func (h *HealthChecker) CheckAll(ctx context.Context) {
	for _, p := range h.store.Projects() {
		status := models.ServerStatusLive
		if url, ok := h.urls[p.Name]; ok && !h.probe(ctx, url) {
			status = models.ServerStatusDown
		}
		if err := h.store.SetServerStatus(p.Name, status); err != nil {
			logging.Warn().Err(err).Str("project", p.Name).Msg("Failed to record server status")
		}
	}
}

// probe reports whether the URL answers a GET with a 2xx status.
func (h *HealthChecker) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := h.client.Do(req)
	if err != nil {
		logging.Debug().Err(err).Str("url", url).Msg("Health probe failed")
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
