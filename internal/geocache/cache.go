// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package geocache

import (
	"errors"
	"sync"

	"github.com/jcastanov/issuemap/internal/models"
)

// ErrNotFound is returned when an IP has no cached location.
var ErrNotFound = errors.New("geocache: ip not cached")

// Cache stores resolved locations by literal IP string. Implementations
// serialize their own writes; last write wins on concurrent puts for the
// same IP, which is harmless since both carry the same answer.
type Cache interface {
	// Get returns the cached location for ip, or ErrNotFound.
	Get(ip string) (*models.Location, error)

	// Put stores raw provider JSON for ip.
	Put(ip string, raw []byte) error
}

// Memory is an in-process Cache for tests.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*models.Location
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]*models.Location)}
}

// Get implements Cache.
func (m *Memory) Get(ip string) (*models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.entries[ip]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *loc
	return &cp, nil
}

// Put implements Cache.
func (m *Memory) Put(ip string, raw []byte) error {
	loc, err := DecodeDocument(ip, raw)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[ip] = loc
	return nil
}

// Len returns the number of cached IPs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
