// Issuemap - Sentry Issue Telemetry with Geographic Enrichment
// Copyright 2026 J. Castano (jcastanov)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/jcastanov/issuemap

package throttle

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewAppliesDefaults(t *testing.T) {
	q := New(0, 0)
	if q.maxPerWindow != DefaultMaxPerWindow {
		t.Errorf("maxPerWindow = %d, expected %d", q.maxPerWindow, DefaultMaxPerWindow)
	}
	if q.window != DefaultWindow {
		t.Errorf("window = %v, expected %v", q.window, DefaultWindow)
	}
}

func TestEnqueueRunsAllJobs(t *testing.T) {
	q := New(5, 10*time.Millisecond)

	var done sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 12; i++ {
		done.Add(1)
		q.Enqueue(func() {
			ran.Add(1)
			done.Done()
		})
	}

	done.Wait()
	if got := ran.Load(); got != 12 {
		t.Errorf("ran %d jobs, expected 12", got)
	}
}

func TestConcurrencyBound(t *testing.T) {
	const maxPerWindow = 5
	q := New(maxPerWindow, 5*time.Millisecond)

	var inFlight, peak atomic.Int32
	var done sync.WaitGroup
	for i := 0; i < 12; i++ {
		done.Add(1)
		q.Enqueue(func() {
			defer done.Done()
			cur := inFlight.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
		})
	}
	done.Wait()

	if got := peak.Load(); got > maxPerWindow {
		t.Errorf("peak concurrency %d exceeds window bound %d", got, maxPerWindow)
	}
}

func TestBatchReleaseTiming(t *testing.T) {
	// 12 jobs at 5 per window means three batches: the last batch cannot
	// start before two full cooldown windows have elapsed.
	const window = 40 * time.Millisecond
	q := New(5, window)

	start := time.Now()
	var lastStart atomic.Int64
	var done sync.WaitGroup
	for i := 0; i < 12; i++ {
		done.Add(1)
		q.Enqueue(func() {
			defer done.Done()
			elapsed := time.Since(start).Nanoseconds()
			for {
				prev := lastStart.Load()
				if elapsed <= prev || lastStart.CompareAndSwap(prev, elapsed) {
					break
				}
			}
		})
	}
	done.Wait()

	if got := time.Duration(lastStart.Load()); got < 2*window {
		t.Errorf("final batch started after %v, expected at least %v", got, 2*window)
	}
}

func TestCooldownWaitsForBatchToSettle(t *testing.T) {
	// A slow job in batch one must delay batch two by its own duration plus
	// the window: settle-then-cooldown, not a fixed-rate ticker.
	const window = 30 * time.Millisecond
	const slow = 60 * time.Millisecond
	q := New(1, window)

	start := time.Now()
	var secondStart time.Duration
	var done sync.WaitGroup
	done.Add(2)
	q.Enqueue(func() {
		time.Sleep(slow)
		done.Done()
	})
	q.Enqueue(func() {
		secondStart = time.Since(start)
		done.Done()
	})
	done.Wait()

	if secondStart < slow+window {
		t.Errorf("second batch started at %v, expected at least %v", secondStart, slow+window)
	}
}

func TestFIFORelease(t *testing.T) {
	q := New(1, time.Millisecond)

	var mu sync.Mutex
	var order []int
	var done sync.WaitGroup
	for i := 0; i < 5; i++ {
		done.Add(1)
		q.Enqueue(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			done.Done()
		})
	}
	done.Wait()

	for i, got := range order {
		if got != i {
			t.Fatalf("release order %v, expected ascending", order)
		}
	}
}

func TestDoReturnsResult(t *testing.T) {
	q := New(5, time.Millisecond)

	got, err := Do(q, context.Background(), func() (string, error) {
		return "resolved", nil
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if got != "resolved" {
		t.Errorf("Do() = %q, expected %q", got, "resolved")
	}
}

func TestDoPropagatesJobError(t *testing.T) {
	q := New(5, time.Millisecond)
	wantErr := errors.New("provider down")

	_, err := Do(q, context.Background(), func() (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Do() error = %v, expected %v", err, wantErr)
	}
}

func TestDoHonorsCallerContext(t *testing.T) {
	q := New(1, 50*time.Millisecond)

	// Occupy the only slot so the second job waits a full window.
	q.Enqueue(func() { time.Sleep(20 * time.Millisecond) })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Do(q, ctx, func() (int, error) { return 1, nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, expected deadline exceeded", err)
	}
}
