// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/metrics"
	"github.com/jcastanov/issuemap/internal/models"
)

// maxChunk is the gateway's per-request message cap.
const maxChunk = 100

// ExpoClient posts push messages to the Expo push gateway. Sends are rate
// limited and chunked to the gateway's request cap.
type ExpoClient struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewExpoClient wires a gateway client. sendsPerSecond bounds outbound
// requests, not individual messages.
func NewExpoClient(endpoint string, client *http.Client, sendsPerSecond float64) *ExpoClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &ExpoClient{
		endpoint: endpoint,
		http:     client,
		limiter:  rate.NewLimiter(rate.Limit(sendsPerSecond), 1),
	}
}

// Send delivers the messages, chunking as needed, and returns one ticket per
// message in order. A transport or gateway failure aborts the remaining
// chunks; tickets for already-sent chunks are returned alongside the error.
func (c *ExpoClient) Send(ctx context.Context, messages []*models.PushMessage) ([]*models.PushTicket, error) {
	var tickets []*models.PushTicket

	for start := 0; start < len(messages); start += maxChunk {
		end := start + maxChunk
		if end > len(messages) {
			end = len(messages)
		}

		chunk, err := c.sendChunk(ctx, messages[start:end])
		if err != nil {
			metrics.PushSends.WithLabelValues("error").Inc()
			return tickets, err
		}
		tickets = append(tickets, chunk...)
	}

	for _, ticket := range tickets {
		metrics.PushSends.WithLabelValues(ticket.Status).Inc()
		if ticket.Status != "ok" {
			logging.Warn().Str("error", ticket.Message).Msg("Push ticket reported failure")
		}
	}
	return tickets, nil
}

func (c *ExpoClient) sendChunk(ctx context.Context, messages []*models.PushMessage) ([]*models.PushTicket, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("encoding push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to push gateway: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, excerpt)
	}

	// The gateway wraps tickets in a data envelope.
	var envelope struct {
		Data []*models.PushTicket `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding push tickets: %w", err)
	}
	if len(envelope.Data) != len(messages) {
		return nil, fmt.Errorf("push gateway returned %d tickets for %d messages", len(envelope.Data), len(messages))
	}
	return envelope.Data, nil
}
