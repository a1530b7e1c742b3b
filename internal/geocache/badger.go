// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geocache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/jcastanov/issuemap/internal/models"
)

// geoKeyPrefix namespaces cache entries inside the shared Badger database.
const geoKeyPrefix = "geo:"

// Badger is the durable Cache implementation, persisting across restarts.
type Badger struct {
	db *badger.DB
}

// NewBadger wraps an open Badger database as a geolocation cache.
func NewBadger(db *badger.DB) *Badger {
	return &Badger{db: db}
}

// Get implements Cache.
func (b *Badger) Get(ip string) (*models.Location, error) {
	var raw []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(geoKeyPrefix + ip))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get location: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return DecodeDocument(ip, raw)
}

// Put implements Cache. The raw provider document is validated before the
// write so a corrupt body never poisons the cache.
func (b *Badger) Put(ip string, raw []byte) error {
	if _, err := DecodeDocument(ip, raw); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(geoKeyPrefix+ip), raw)
	})
}
