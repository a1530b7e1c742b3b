// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package push

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// tokenKeyPrefix namespaces registry entries inside the shared Badger
// database, alongside the geolocation cache.
const tokenKeyPrefix = "token:"

// ErrInvalidToken rejects registrations that do not look like an Expo push
// token.
var ErrInvalidToken = errors.New("push: invalid expo push token")

// Registration is one registered device.
type Registration struct {
	Token        string `json:"token"`
	RegisteredAt string `json:"registeredAt"`
}

// TokenRegistry stores the device push tokens the relay fans out to.
type TokenRegistry struct {
	db *badger.DB
}

// NewTokenRegistry wraps an open Badger database as a token registry.
func NewTokenRegistry(db *badger.DB) *TokenRegistry {
	return &TokenRegistry{db: db}
}

// Register stores a token. Registering an existing token refreshes its
// timestamp.
func (r *TokenRegistry) Register(token string) error {
	if !ValidToken(token) {
		return ErrInvalidToken
	}

	reg := Registration{
		Token:        token,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	raw, err := json.Marshal(reg)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(tokenKeyPrefix+token), raw)
	})
}

// Remove deletes a token. Removing an unknown token is a no-op.
func (r *TokenRegistry) Remove(token string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(tokenKeyPrefix + token))
	})
}

// Tokens returns every registered token.
func (r *TokenRegistry) Tokens() ([]string, error) {
	var tokens []string

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tokenKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(raw []byte) error {
				var reg Registration
				if err := json.Unmarshal(raw, &reg); err != nil {
					return fmt.Errorf("decoding registration: %w", err)
				}
				tokens = append(tokens, reg.Token)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// ValidToken reports whether the string has the Expo push token shape,
// ExponentPushToken[...] with a non-empty payload.
func ValidToken(token string) bool {
	if !strings.HasPrefix(token, "ExponentPushToken[") && !strings.HasPrefix(token, "ExpoPushToken[") {
		return false
	}
	if !strings.HasSuffix(token, "]") {
		return false
	}
	open := strings.Index(token, "[")
	return len(token)-1 > open+1
}
