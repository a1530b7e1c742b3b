// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/jcastanov/issuemap/internal/logging"
)

// retryWithBackoff executes a function with exponential backoff on failure.
// The context is checked before every attempt and during backoff waits; if it
// is canceled the function returns immediately with the context error.
func (e *Engine) retryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	delay := e.cfg.Sentry.RetryDelay
	attempts := e.cfg.Sentry.RetryAttempts

	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		if err == nil {
			return nil
		}

		if attempt < attempts-1 {
			logging.Warn().Err(err).Int("attempt", attempt+1).Int("max_attempts", attempts).Dur("delay", delay).Msg("Retry attempt")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}

	return fmt.Errorf("max retry attempts reached: %w", err)
}
