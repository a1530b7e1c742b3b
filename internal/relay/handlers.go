// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package relay

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/metrics"
	"github.com/jcastanov/issuemap/internal/models"
	"github.com/jcastanov/issuemap/internal/notify"
	"github.com/jcastanov/issuemap/internal/push"
	"github.com/jcastanov/issuemap/internal/store"
)

// Sender delivers push messages to the gateway.
type Sender interface {
	Send(ctx context.Context, messages []*models.PushMessage) ([]*models.PushTicket, error)
}

// Publisher emits issue notifications on the internal bus.
type Publisher interface {
	Publish(n *notify.Notification) error
}

// Syncer triggers project sync cycles.
type Syncer interface {
	Sync(ctx context.Context, name string) error
	SyncArchived(ctx context.Context, name string) error
}

// Archiver resolves an issue upstream.
type Archiver interface {
	Archive(ctx context.Context, projectName, issueID string) error
}

// Handler carries the relay's dependencies.
type Handler struct {
	registry *push.TokenRegistry
	sender   Sender
	bus      Publisher
	store    *store.Store
	syncer   Syncer
	archiver Archiver
}

// NewHandler wires the relay handlers.
func NewHandler(registry *push.TokenRegistry, sender Sender, bus Publisher, st *store.Store, syncer Syncer, archiver Archiver) *Handler {
	return &Handler{
		registry: registry,
		sender:   sender,
		bus:      bus,
		store:    st,
		syncer:   syncer,
		archiver: archiver,
	}
}

// Webhook handles POST /webhooks/sentry: publish the notification on the bus
// and fan the push message out to every registered device.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		metrics.WebhookRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
		writeError(w, r, http.StatusBadRequest, "invalid_payload", "malformed webhook body")
		return
	}
	if payload.ID == "" || payload.projectName() == "" {
		metrics.WebhookRequests.WithLabelValues(strconv.Itoa(http.StatusBadRequest)).Inc()
		writeError(w, r, http.StatusBadRequest, "invalid_payload", "issue id and project are required")
		return
	}

	if err := h.bus.Publish(payload.notification()); err != nil {
		logging.Error().Err(err).Str("issue", payload.ID).Msg("Failed to publish notification")
		metrics.WebhookRequests.WithLabelValues(strconv.Itoa(http.StatusInternalServerError)).Inc()
		writeError(w, r, http.StatusInternalServerError, "publish_failed", "could not queue notification")
		return
	}

	tokens, err := h.registry.Tokens()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list push tokens")
		tokens = nil
	}

	notified := 0
	if len(tokens) > 0 {
		tickets, err := h.sender.Send(r.Context(), payload.pushMessages(tokens))
		if err != nil {
			// The notification is already on the bus; a push failure is not
			// the webhook sender's problem.
			logging.Warn().Err(err).Str("issue", payload.ID).Msg("Push fan-out failed")
		}
		for _, ticket := range tickets {
			if ticket.Status == "ok" {
				notified++
			}
		}
	}

	logging.Info().
		Str("project", payload.projectName()).
		Str("issue", payload.ID).
		Int("notified", notified).
		Msg("Webhook processed")
	metrics.WebhookRequests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()
	writeJSON(w, http.StatusOK, map[string]any{"notified": notified})
}

// RegisterToken handles POST /api/v1/tokens.
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_payload", "malformed body")
		return
	}

	if err := h.registry.Register(body.Token); err != nil {
		if errors.Is(err, push.ErrInvalidToken) {
			writeError(w, r, http.StatusBadRequest, "invalid_token", "not an Expo push token")
			return
		}
		logging.Error().Err(err).Msg("Failed to register token")
		writeError(w, r, http.StatusInternalServerError, "registry_error", "could not store token")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"token": body.Token})
}

// RemoveToken handles DELETE /api/v1/tokens/{token}.
func (h *Handler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := h.registry.Remove(token); err != nil {
		logging.Error().Err(err).Msg("Failed to remove token")
		writeError(w, r, http.StatusInternalServerError, "registry_error", "could not remove token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTokens handles GET /api/v1/tokens.
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.registry.Tokens()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list tokens")
		writeError(w, r, http.StatusInternalServerError, "registry_error", "could not list tokens")
		return
	}
	if tokens == nil {
		tokens = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// ListProjects handles GET /api/v1/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"projects": h.store.Projects(),
		"loading":  h.store.Loading(),
		"error":    h.store.SyncError(),
	})
}

// GetProject handles GET /api/v1/projects/{name}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := h.store.Project(name)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "not_found", "unknown project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// TriggerSync handles POST /api/v1/projects/{name}/sync. The cycle runs in
// the background; the engine skips it if one is already in flight.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := h.store.Project(name); err != nil {
		writeError(w, r, http.StatusNotFound, "not_found", "unknown project")
		return
	}

	go func() {
		if err := h.syncer.Sync(context.Background(), name); err != nil {
			logging.Warn().Err(err).Str("project", name).Msg("Triggered sync failed")
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"project": name})
}

// SyncArchivedIssues handles POST /api/v1/projects/{name}/archived/sync. The
// engine merges archived issues at most once per session.
func (h *Handler) SyncArchivedIssues(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if _, err := h.store.Project(name); err != nil {
		writeError(w, r, http.StatusNotFound, "not_found", "unknown project")
		return
	}

	if err := h.syncer.SyncArchived(r.Context(), name); err != nil {
		logging.Warn().Err(err).Str("project", name).Msg("Archived sync failed")
		writeError(w, r, http.StatusBadGateway, "sync_failed", "could not fetch archived issues")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"project": name})
}

// ArchiveIssue handles POST /api/v1/projects/{name}/issues/{id}/archive.
func (h *Handler) ArchiveIssue(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	issueID := chi.URLParam(r, "id")

	if err := h.archiver.Archive(r.Context(), name, issueID); err != nil {
		logging.Warn().Err(err).Str("issue", issueID).Msg("Archive failed")
		writeError(w, r, http.StatusBadGateway, "archive_failed", "upstream refused the resolve")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"issue": issueID, "status": models.StatusResolved})
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
