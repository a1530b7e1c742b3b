// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

// Package throttle provides a batch-release job queue used to stay under
// upstream rate limits.
//
// Jobs join a FIFO queue; at most MaxPerWindow jobs are released per window,
// the queue waits for every job in the released batch to settle, then waits
// the full window before releasing the next batch. This is a coarse leaky
// bucket: burst timing is looser than a token bucket, but the "at most N in
// flight per window" bound holds and is what callers test against.
//
// A job once enqueued always eventually runs; there is no priority or
// cancellation at the queue level. Callers that need cancellation check their
// own context inside the job.
package throttle
