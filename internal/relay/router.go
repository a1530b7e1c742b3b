// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package relay

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jcastanov/issuemap/internal/config"
	"github.com/jcastanov/issuemap/internal/middleware"
)

// Router builds the relay's HTTP handler.
func Router(h *Handler, cfg config.RelayConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Prometheus)

	// Webhook route: rate limited per source IP so a misconfigured upstream
	// cannot flood the push gateway.
	r.Route("/webhooks", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateLimitWindow))
		r.Post("/sentry", h.Webhook)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tokens", func(r chi.Router) {
			r.Get("/", h.ListTokens)
			r.Post("/", h.RegisterToken)
			r.Delete("/{token}", h.RemoveToken)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Get("/{name}", h.GetProject)
			r.Post("/{name}/sync", h.TriggerSync)
			r.Post("/{name}/archived/sync", h.SyncArchivedIssues)
			r.Post("/{name}/issues/{id}/archive", h.ArchiveIssue)
		})
	})

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
