// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/jcastanov/issuemap/internal/metrics"
)

// Default queue parameters, matching the geolocation provider's free tier.
const (
	DefaultMaxPerWindow = 5
	DefaultWindow       = time.Second
)

// Queue releases enqueued jobs in FIFO batches of at most maxPerWindow,
// waiting for the batch to settle plus one full window between releases.
type Queue struct {
	mu           sync.Mutex
	jobs         []func()
	draining     bool
	maxPerWindow int
	window       time.Duration
}

// New creates a Queue. Non-positive arguments fall back to the defaults.
func New(maxPerWindow int, window time.Duration) *Queue {
	if maxPerWindow <= 0 {
		maxPerWindow = DefaultMaxPerWindow
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Queue{
		maxPerWindow: maxPerWindow,
		window:       window,
	}
}

// Enqueue adds a job to the queue and starts the drain loop if it is idle.
// The job runs on a queue-owned goroutine; panics inside jobs are the job's
// own responsibility.
func (q *Queue) Enqueue(job func()) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	metrics.ThrottleQueueDepth.Set(float64(len(q.jobs)))
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
}

// Len returns the number of jobs waiting to be released.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// drain releases batches until the queue is empty. It runs on a single
// goroutine at a time, guarded by the draining flag.
func (q *Queue) drain() {
	for {
		batch := q.takeBatch()
		if len(batch) == 0 {
			return
		}

		metrics.ThrottleBatchesReleased.Inc()

		var wg sync.WaitGroup
		wg.Add(len(batch))
		for _, job := range batch {
			go func(fn func()) {
				defer wg.Done()
				fn()
			}(job)
		}
		wg.Wait()

		// Full cooldown after the batch settles, even if the queue is empty;
		// jobs enqueued during the wait belong to the next window.
		time.Sleep(q.window)

		q.mu.Lock()
		if len(q.jobs) == 0 {
			q.draining = false
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()
	}
}

// takeBatch pops up to maxPerWindow jobs, clearing draining when empty.
func (q *Queue) takeBatch() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.jobs)
	if n == 0 {
		q.draining = false
		return nil
	}
	if n > q.maxPerWindow {
		n = q.maxPerWindow
	}

	batch := q.jobs[:n:n]
	q.jobs = q.jobs[n:]
	metrics.ThrottleQueueDepth.Set(float64(len(q.jobs)))
	return batch
}

// Do runs a result-bearing job through the queue and returns its outcome.
// The job itself always runs once released; ctx only bounds how long the
// caller waits for the result.
func Do[T any](q *Queue, ctx context.Context, job func() (T, error)) (T, error) {
	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)

	q.Enqueue(func() {
		val, err := job()
		done <- outcome{val: val, err: err}
	})

	select {
	case out := <-done:
		return out.val, out.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
