// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/jcastanov/issuemap/internal/metrics"
	"github.com/jcastanov/issuemap/internal/models"
	"github.com/jcastanov/issuemap/internal/sentry"
)

// Resolver turns an IP address into a location. It never fails; unresolvable
// addresses get a default location.
type Resolver interface {
	Resolve(ctx context.Context, ip string) *models.Location
}

// Enricher fetches the events of an issue and resolves a geolocation for
// every event that carries a user IP address.
type Enricher struct {
	api      sentry.API
	resolver Resolver
}

// NewEnricher wires an enricher.
func NewEnricher(api sentry.API, resolver Resolver) *Enricher {
	return &Enricher{api: api, resolver: resolver}
}

// Enrich returns the issue's events with locations attached, in the order the
// API returned them. Event-fetch errors propagate to the caller; location
// resolution never fails, so a returned event either has a location or never
// had a resolvable IP. Events are resolved concurrently, the cache and the
// request throttle below the resolver bound the real lookup rate.
func (e *Enricher) Enrich(ctx context.Context, issueID string) ([]*models.Event, error) {
	events, err := e.api.ListEvents(ctx, issueID)
	if err != nil {
		metrics.EnrichmentFailures.Inc()
		return nil, fmt.Errorf("fetching events for issue %s: %w", issueID, err)
	}

	var wg sync.WaitGroup
	for _, event := range events {
		if !event.HasResolvableIP() {
			continue
		}
		wg.Add(1)
		go func(ev *models.Event) {
			defer wg.Done()
			ev.Location = e.resolver.Resolve(ctx, ev.User.IPAddress)
		}(event)
	}
	wg.Wait()

	return events, nil
}
