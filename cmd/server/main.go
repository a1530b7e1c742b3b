// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package main is the entry point for the Issuemap server.
//
// Issuemap synchronizes Sentry issues per project, enriches their latest
// events with geolocation data resolved from client IP addresses, and relays
// Sentry webhooks to Expo push notifications.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 loading (defaults, config.yaml, env)
//  2. Badger: single database backing the geo cache and push-token registry
//  3. Geo resolver: throttled AbstractAPI lookups behind the cache
//  4. Sentry client: circuit-breaker wrapped REST client
//  5. Sync engine: per-project issue sync with background enrichment
//  6. Notification bus: Watermill in-process pub/sub for webhook events
//  7. Relay: chi HTTP server for webhooks, tokens, and project control
//  8. Supervisor: suture tree running the bus, health checks, and the relay
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (ISSUEMAP_ prefix, e.g. ISSUEMAP_SENTRY_TOKEN)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Minimum viable configuration:
//
//	export ISSUEMAP_SENTRY_ORGANIZATION=my-org
//	export ISSUEMAP_SENTRY_TOKEN=sntrys_...
//	export ISSUEMAP_GEO_API_KEY=abstract-api-key
//	./issuemap
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the supervisor
// stops the HTTP server and bus router, in-flight enrichment is drained,
// and the Badger database is closed.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/jcastanov/issuemap/internal/config"
	"github.com/jcastanov/issuemap/internal/geo"
	"github.com/jcastanov/issuemap/internal/geocache"
	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/notify"
	"github.com/jcastanov/issuemap/internal/push"
	"github.com/jcastanov/issuemap/internal/relay"
	"github.com/jcastanov/issuemap/internal/sentry"
	"github.com/jcastanov/issuemap/internal/store"
	"github.com/jcastanov/issuemap/internal/supervisor"
	"github.com/jcastanov/issuemap/internal/sync"
	"github.com/jcastanov/issuemap/internal/throttle"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})

	logging.Info().
		Str("sentry_org", cfg.Sentry.Organization).
		Str("addr", cfg.Relay.Addr).
		Str("data_dir", cfg.Data.Dir).
		Msg("Starting Issuemap")

	// Badger backs both the geolocation cache and the push-token registry.
	opts := badger.DefaultOptions(cfg.Data.Dir).WithLogger(nil)
	if cfg.Data.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Data.Dir).Msg("Failed to open Badger database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing Badger database")
		}
	}()

	st := store.New()

	// Geolocation pipeline: cache first, throttled provider lookups behind it.
	queue := throttle.New(cfg.Geo.MaxPerWindow, cfg.Geo.Window)
	provider := geo.NewAbstractProvider(cfg.Geo.ProviderURL, cfg.Geo.APIKey, cfg.Geo.Timeout)
	resolver := geo.NewResolver(geocache.NewBadger(db), queue, provider)

	// Sentry client wrapped in a circuit breaker so a flapping upstream trips
	// fast instead of queueing retries.
	api := sentry.NewBreakerClient(sentry.NewClient(&cfg.Sentry))

	tracker := sync.NewTracker()
	enricher := sync.NewEnricher(api, resolver)
	engine := sync.NewEngine(api, enricher, st, tracker, cfg)

	registry := push.NewTokenRegistry(db)
	expo := push.NewExpoClient(cfg.Push.Endpoint, &http.Client{Timeout: cfg.Push.Timeout}, cfg.Push.SendsPerSecond)

	bus, err := notify.NewBus()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create notification bus")
	}
	bus.HandleNewIssues(tracker, engine, cfg.Sync.AutoSyncOnNotify)

	checker := sync.NewHealthChecker(st, cfg.Sync.HealthURLs, cfg.Sync.Timeout)

	handler := relay.NewHandler(registry, expo, bus, st, engine, engine)
	router := relay.Router(handler, cfg.Relay)

	// Context for graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(supervisor.NewRunnerService("notify-bus", bus))
	tree.AddMessagingService(supervisor.NewPeriodicService("health-checker", cfg.Sync.HealthInterval, checker.CheckAll))
	tree.AddAPIService(supervisor.NewHTTPService("relay", cfg.Relay.Addr, router, cfg.Relay.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", cfg.Relay.Addr).Msg("Supervisor tree started")

	// Fetch the project list once at startup; failures are recorded on the
	// store and surfaced through the API rather than aborting the server.
	go func() {
		if err := engine.SyncProjects(ctx); err != nil {
			logging.Error().Err(err).Msg("Initial project sync failed")
		}
	}()

	if err := <-errCh; err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("Supervisor tree exited")
		os.Exit(1)
	}

	logging.Info().Msg("Shutting down")

	// Drain background enrichment before closing shared resources.
	engine.Wait()
	if err := bus.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing notification bus")
	}
}
