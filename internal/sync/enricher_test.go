// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jcastanov/issuemap/internal/models"
)

// fakeResolver labels each location with the IP it was asked about.
type fakeResolver struct {
	mu    sync.Mutex
	calls []string
}

func (r *fakeResolver) Resolve(_ context.Context, ip string) *models.Location {
	r.mu.Lock()
	r.calls = append(r.calls, ip)
	r.mu.Unlock()
	return &models.Location{IP: ip, City: "city-" + ip, Status: models.LocationStatusSuccess}
}

func TestEnrichAttachesLocationsInOrder(t *testing.T) {
	api := newFakeAPI()
	api.events["42"] = []*models.Event{
		{ID: "e1", User: &models.User{IPAddress: "1.1.1.1"}},
		{ID: "e2"},
		{ID: "e3", User: &models.User{IPAddress: "2.2.2.2"}},
	}
	resolver := &fakeResolver{}

	events, err := NewEnricher(api, resolver).Enrich(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}

	if len(events) != 3 {
		t.Fatalf("got %d events, expected 3", len(events))
	}
	for i, id := range []string{"e1", "e2", "e3"} {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %s, expected %s (order must match the API)", i, events[i].ID, id)
		}
	}
	if loc := events[0].Location; loc == nil || loc.City != "city-1.1.1.1" {
		t.Errorf("events[0].Location = %+v", events[0].Location)
	}
	if events[1].Location != nil {
		t.Error("event without a user IP must keep a nil location")
	}
	if loc := events[2].Location; loc == nil || loc.City != "city-2.2.2.2" {
		t.Errorf("events[2].Location = %+v", events[2].Location)
	}
}

func TestEnrichSkipsEventsWithExistingLocation(t *testing.T) {
	prior := &models.Location{City: "Already"}
	api := newFakeAPI()
	api.events["42"] = []*models.Event{
		{ID: "e1", User: &models.User{IPAddress: "1.1.1.1"}, Location: prior},
	}
	resolver := &fakeResolver{}

	events, err := NewEnricher(api, resolver).Enrich(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}
	if events[0].Location != prior {
		t.Error("existing location must not be replaced")
	}
	if len(resolver.calls) != 0 {
		t.Errorf("resolver called %d times for an already-located event", len(resolver.calls))
	}
}

func TestEnrichPropagatesFetchError(t *testing.T) {
	api := newFakeAPI()
	api.eventsErr = errors.New("api: 502 bad gateway")

	_, err := NewEnricher(api, &fakeResolver{}).Enrich(context.Background(), "42")
	if err == nil {
		t.Fatal("expected the event-fetch error to propagate")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q does not carry the cause", err)
	}
}
