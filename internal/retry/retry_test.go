// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package retry reruns failing operations with configurable backoff.
package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	}, Options{})

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("Result = %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("Calls = %d, want 1", calls)
	}
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	}, Options{Delay: time.Millisecond})

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("Result = %d, want 42", got)
	}
	if calls != 3 {
		t.Errorf("Calls = %d, want 3", calls)
	}
}

func TestDo_ExhaustsAttemptsAndPreservesError(t *testing.T) {
	sentinel := errors.New("persistent failure")
	calls := 0

	_, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", sentinel
	}, Options{MaxAttempts: 3, Delay: time.Millisecond})

	if calls != 3 {
		t.Errorf("Calls = %d, want 3", calls)
	}
	// The final error must be the operation's error, not a wrapper.
	if err != sentinel {
		t.Errorf("Error identity lost: got %v", err)
	}
}

func TestDo_ExponentialBackoffTiming(t *testing.T) {
	var waits []time.Duration
	start := time.Now()
	last := start

	_, _ = Do(context.Background(), func(ctx context.Context) (int, error) {
		now := time.Now()
		waits = append(waits, now.Sub(last))
		last = now
		return 0, errors.New("fail")
	}, Options{MaxAttempts: 3, Delay: 10 * time.Millisecond, Backoff: BackoffExponential})

	if len(waits) != 3 {
		t.Fatalf("Attempts = %d, want 3", len(waits))
	}
	// First call is immediate; then ~10ms, then ~20ms.
	if waits[1] < 10*time.Millisecond || waits[1] > 100*time.Millisecond {
		t.Errorf("First retry wait = %v, want ~10ms", waits[1])
	}
	if waits[2] < 20*time.Millisecond || waits[2] > 200*time.Millisecond {
		t.Errorf("Second retry wait = %v, want ~20ms", waits[2])
	}
}

func TestDo_FixedBackoff(t *testing.T) {
	if d := delayFor(Options{Delay: 10 * time.Millisecond, Backoff: BackoffFixed}, 3); d != 10*time.Millisecond {
		t.Errorf("Fixed delay = %v, want 10ms", d)
	}
	if d := delayFor(Options{Delay: 10 * time.Millisecond, Backoff: BackoffExponential}, 3); d != 40*time.Millisecond {
		t.Errorf("Exponential delay after attempt 3 = %v, want 40ms", d)
	}
}

func TestDo_OnRetryCallback(t *testing.T) {
	var attempts []int
	var errs []error
	opErr := errors.New("boom")

	_, _ = Do(context.Background(), func(ctx context.Context) (int, error) {
		return 0, opErr
	}, Options{MaxAttempts: 3, Delay: time.Millisecond, OnRetry: func(attempt int, err error) {
		attempts = append(attempts, attempt)
		errs = append(errs, err)
	}})

	// Called after each failure except the last.
	if len(attempts) != 2 {
		t.Fatalf("OnRetry calls = %d, want 2", len(attempts))
	}
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", attempts)
	}
	for _, err := range errs {
		if err != opErr {
			t.Errorf("OnRetry error = %v, want %v", err, opErr)
		}
	}
}

func TestDo_ContextCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Do(ctx, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	}, Options{MaxAttempts: 3, Delay: 10 * time.Second})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("Calls = %d, want 1 (cancel should stop the wait)", calls)
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0

	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, Permanent(sentinel)
	}, Options{MaxAttempts: 3, Delay: time.Millisecond})

	if calls != 1 {
		t.Errorf("Calls = %d, want 1", calls)
	}
	if err != sentinel {
		t.Errorf("Error = %v, want the unwrapped sentinel", err)
	}
}

func TestDo_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()
	if opts.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", opts.MaxAttempts, DefaultMaxAttempts)
	}
	if opts.Delay != DefaultDelay {
		t.Errorf("Delay = %v, want %v", opts.Delay, DefaultDelay)
	}
	if opts.Backoff != BackoffExponential {
		t.Errorf("Backoff = %v, want exponential", opts.Backoff)
	}
}
