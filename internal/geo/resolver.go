// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geo

import (
	"context"
	"errors"

	"github.com/jcastanov/issuemap/internal/geocache"
	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/metrics"
	"github.com/jcastanov/issuemap/internal/models"
	"github.com/jcastanov/issuemap/internal/throttle"
)

// Resolver resolves IPs to locations through the cache and, on miss, a
// throttled provider lookup.
type Resolver struct {
	cache    geocache.Cache
	queue    *throttle.Queue
	provider Provider
}

// NewResolver wires a resolver. All three collaborators are required.
func NewResolver(cache geocache.Cache, queue *throttle.Queue, provider Provider) *Resolver {
	return &Resolver{
		cache:    cache,
		queue:    queue,
		provider: provider,
	}
}

// Resolve returns the location for ip. It never fails: provider or cache
// problems yield the default location, private addresses a local marker.
// A cache hit returns immediately without entering the throttle queue.
func (r *Resolver) Resolve(ctx context.Context, ip string) *models.Location {
	ip = NormalizeIP(ip)

	if IsPrivateIP(ip) {
		metrics.GeoLookups.WithLabelValues("local").Inc()
		return models.LocalLocation(ip)
	}

	if loc := r.fromCache(ip); loc != nil {
		metrics.GeoCacheHits.Inc()
		return loc
	}
	metrics.GeoCacheMisses.Inc()

	loc, err := throttle.Do(r.queue, ctx, func() (*models.Location, error) {
		return r.lookup(ctx, ip)
	})
	if err != nil {
		metrics.GeoLookups.WithLabelValues("default").Inc()
		logging.Warn().Err(err).Str("ip", ip).Msg("geolocation lookup failed, using default location")
		return models.DefaultLocation()
	}

	metrics.GeoLookups.WithLabelValues("success").Inc()
	return loc
}

// fromCache returns a cached location or nil. A corrupt entry is treated as
// a miss so the network path can repair it.
func (r *Resolver) fromCache(ip string) *models.Location {
	loc, err := r.cache.Get(ip)
	if err != nil {
		if !errors.Is(err, geocache.ErrNotFound) {
			logging.Warn().Err(err).Str("ip", ip).Msg("geolocation cache read failed")
		}
		return nil
	}
	return loc
}

// lookup performs the provider call and caches a successful raw document.
// Failed lookups are deliberately not cached so a later resolve retries.
func (r *Resolver) lookup(ctx context.Context, ip string) (*models.Location, error) {
	loc, raw, err := r.provider.Lookup(ctx, ip)
	if err != nil {
		metrics.GeoLookups.WithLabelValues("failure").Inc()
		return nil, err
	}

	if err := r.cache.Put(ip, raw); err != nil {
		// Cache failure is not a resolution failure.
		logging.Warn().Err(err).Str("ip", ip).Msg("failed to cache geolocation")
	} else {
		logging.Debug().Str("ip", ip).Str("provider", r.provider.Name()).Msg("geolocation cached")
	}

	return loc, nil
}
