// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package retry reruns failing operations with configurable backoff.
//
// The helper is deliberately small: it retries everything it is handed
// until attempts run out, and returns the LAST error exactly as the
// operation produced it, so callers can keep using errors.Is/As on the
// result. Deciding which errors are worth retrying belongs to the
// caller (the API client retries network failures and 5xx, not 4xx).
//
// # Usage
//
//	resp, err := retry.Do(ctx, func(ctx context.Context) (*Response, error) {
//		return client.fetch(ctx, req)
//	}, retry.Options{OnRetry: func(attempt int, err error) {
//		log.Printf("retry %d: %v", attempt, err)
//	}})
package retry

import (
	"context"
	"errors"
	"time"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Backoff strategies for the wait between attempts.
type Backoff int

const (
	// BackoffExponential doubles the delay after each failed attempt.
	BackoffExponential Backoff = iota
	// BackoffFixed waits the same delay between every attempt.
	BackoffFixed
)

// Defaults applied when an Options field is zero.
const (
	DefaultMaxAttempts = 3
	DefaultDelay       = 1000 * time.Millisecond
)

// Options configures Do. The zero value means 3 attempts with a 1s
// initial delay and exponential backoff.
type Options struct {
	// MaxAttempts is the total number of invocations, including the
	// first. Values below 1 use the default.
	MaxAttempts int

	// Delay is the wait before the first retry. Non-positive values
	// use the default.
	Delay time.Duration

	// Backoff selects how the delay grows between retries.
	Backoff Backoff

	// OnRetry, if set, is called before each wait with the 1-based
	// number of the attempt that just failed and its error.
	OnRetry func(attempt int, err error)
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts < 1 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	return o
}

// =============================================================================
// DO
// =============================================================================

// Do invokes op until it succeeds or attempts run out. The error from
// the final attempt is returned unchanged. Waits between attempts abort
// early if ctx is cancelled, in which case ctx.Err() is returned.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	opts = opts.withDefaults()

	var zero T
	var lastErr error

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			return zero, pe.err
		}
		lastErr = err

		if attempt == opts.MaxAttempts {
			break
		}
		if opts.OnRetry != nil {
			opts.OnRetry(attempt, err)
		}
		if waitErr := sleep(ctx, delayFor(opts, attempt)); waitErr != nil {
			return zero, waitErr
		}
	}

	return zero, lastErr
}

// permanentError marks a failure the caller has judged not worth
// retrying.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Do stops immediately and returns err
// unchanged instead of burning the remaining attempts.
func Permanent(err error) error {
	return &permanentError{err: err}
}

// delayFor computes the wait after the given 1-based failed attempt.
func delayFor(opts Options, attempt int) time.Duration {
	if opts.Backoff == BackoffFixed {
		return opts.Delay
	}
	d := opts.Delay
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
