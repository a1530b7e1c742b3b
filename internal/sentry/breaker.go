// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sentry

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jcastanov/issuemap/internal/logging"
	"github.com/jcastanov/issuemap/internal/metrics"
	"github.com/jcastanov/issuemap/internal/models"
)

const breakerName = "sentry-api"

// BreakerClient wraps the Sentry client with a circuit breaker so a degraded
// upstream trips fast instead of queueing doomed requests.
//
// The breaker uses real time for its recovery windows; unit tests exercise
// the wrapped client directly and only cover trip behavior here.
type BreakerClient struct {
	api API
	cb  *gobreaker.CircuitBreaker[any]
}

// NewBreakerClient wraps api. Trip policy: at least 10 requests observed and
// a failure rate of 60% or more within the one-minute closed-state window;
// two minutes open before probing half-open with up to 3 requests.
func NewBreakerClient(api API) *BreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", stateName(from)).Str("to", stateName(to)).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &BreakerClient{api: api, cb: cb}
}

// ListProjects implements API.
func (b *BreakerClient) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return execute(b, func() ([]*models.Project, error) {
		return b.api.ListProjects(ctx)
	})
}

// ListIssues implements API.
func (b *BreakerClient) ListIssues(ctx context.Context, projectName, scope string) ([]*models.Issue, error) {
	return execute(b, func() ([]*models.Issue, error) {
		return b.api.ListIssues(ctx, projectName, scope)
	})
}

// ListEvents implements API.
func (b *BreakerClient) ListEvents(ctx context.Context, issueID string) ([]*models.Event, error) {
	return execute(b, func() ([]*models.Event, error) {
		return b.api.ListEvents(ctx, issueID)
	})
}

// ResolveIssue implements API.
func (b *BreakerClient) ResolveIssue(ctx context.Context, issueID string) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.api.ResolveIssue(ctx, issueID)
	})
	return err
}

// execute runs one call through the breaker and records the outcome.
func execute[T any](b *BreakerClient, fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		}
		return zero, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	val, _ := result.(T)
	return val, nil
}

func stateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
