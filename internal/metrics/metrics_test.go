// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(GeoCacheHits)
	GeoCacheHits.Inc()
	after := testutil.ToFloat64(GeoCacheHits)

	if after != before+1 {
		t.Errorf("GeoCacheHits = %v, expected %v", after, before+1)
	}
}

func TestLabeledCounters(t *testing.T) {
	before := testutil.ToFloat64(IssuesClassified.WithLabelValues("error"))
	IssuesClassified.WithLabelValues("error").Inc()
	after := testutil.ToFloat64(IssuesClassified.WithLabelValues("error"))

	if after != before+1 {
		t.Errorf("IssuesClassified{error} = %v, expected %v", after, before+1)
	}
}

func TestCircuitBreakerStateGauge(t *testing.T) {
	CircuitBreakerState.WithLabelValues("sentry-api").Set(1)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("sentry-api")); got != 1 {
		t.Errorf("CircuitBreakerState{sentry-api} = %v, expected 1", got)
	}
	CircuitBreakerState.WithLabelValues("sentry-api").Set(0)
}
