// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geocache

import (
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/jcastanov/issuemap/internal/models"
)

const sampleDoc = `{
	"ip_address": "8.8.8.8",
	"city": "Mountain View",
	"region": "California",
	"region_iso_code": "CA",
	"country": "United States",
	"country_code": "US",
	"continent": "North America",
	"postal_code": "94043",
	"latitude": 37.42,
	"longitude": -122.08,
	"timezone": {"name": "America/Los_Angeles"}
}`

func openTestBadger(t *testing.T) *badger.DB {
	t.Helper()
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// caches under test, sharing one behavior suite
func caches(t *testing.T) map[string]Cache {
	t.Helper()
	return map[string]Cache{
		"memory": NewMemory(),
		"badger": NewBadger(openTestBadger(t)),
	}
}

func TestPutThenGet(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put("8.8.8.8", []byte(sampleDoc)); err != nil {
				t.Fatalf("Put() error: %v", err)
			}

			loc, err := c.Get("8.8.8.8")
			if err != nil {
				t.Fatalf("Get() error: %v", err)
			}
			if loc.City != "Mountain View" {
				t.Errorf("City = %q", loc.City)
			}
			if loc.Country != "United States" {
				t.Errorf("Country = %q", loc.Country)
			}
			if loc.Latitude != 37.42 || loc.Longitude != -122.08 {
				t.Errorf("coordinates = %v,%v", loc.Latitude, loc.Longitude)
			}
			if loc.Status != models.LocationStatusSuccess {
				t.Errorf("Status = %q, expected success", loc.Status)
			}
		})
	}
}

func TestGetMissReturnsErrNotFound(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			_, err := c.Get("203.0.113.9")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() error = %v, expected ErrNotFound", err)
			}
		})
	}
}

func TestPutRejectsCorruptDocument(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			if err := c.Put("8.8.8.8", []byte("{not json")); err == nil {
				t.Error("Put() accepted corrupt JSON")
			}
			if _, err := c.Get("8.8.8.8"); !errors.Is(err, ErrNotFound) {
				t.Errorf("corrupt Put must not create an entry, got err = %v", err)
			}
		})
	}
}

func TestPutOverwritesLastWriteWins(t *testing.T) {
	for name, c := range caches(t) {
		t.Run(name, func(t *testing.T) {
			first := []byte(`{"ip_address":"1.1.1.1","city":"Sydney","country":"Australia","latitude":-33.8,"longitude":151.2}`)
			second := []byte(`{"ip_address":"1.1.1.1","city":"Brisbane","country":"Australia","latitude":-27.4,"longitude":153.0}`)

			if err := c.Put("1.1.1.1", first); err != nil {
				t.Fatal(err)
			}
			if err := c.Put("1.1.1.1", second); err != nil {
				t.Fatal(err)
			}

			loc, err := c.Get("1.1.1.1")
			if err != nil {
				t.Fatal(err)
			}
			if loc.City != "Brisbane" {
				t.Errorf("City = %q, expected last write to win", loc.City)
			}
		})
	}
}

func TestDecodeFillsMissingIPFromKey(t *testing.T) {
	loc, err := DecodeDocument("9.9.9.9", []byte(`{"city":"Zurich","country":"Switzerland","latitude":47.4,"longitude":8.5}`))
	if err != nil {
		t.Fatal(err)
	}
	if loc.IP != "9.9.9.9" {
		t.Errorf("IP = %q, expected key fallback", loc.IP)
	}
}
