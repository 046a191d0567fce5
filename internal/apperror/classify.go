// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apperror classifies failures and routes them to the user.
package apperror

import (
	"errors"
	"net"
	"net/url"
	"strings"
)

// =============================================================================
// SEVERITY
// =============================================================================

// Severity is the coarse tier driving retry eligibility and how
// prominently a failure is shown.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// =============================================================================
// STATUS CARRIER
// =============================================================================

// StatusCarrier is implemented by errors that carry an HTTP status,
// such as the API client's response errors. Classification prefers the
// status over message heuristics.
type StatusCarrier interface {
	error
	HTTPStatus() int
}

// =============================================================================
// CLASSIFY
// =============================================================================

// Classify assigns a severity to an error.
//
// Errors carrying an HTTP status use a fixed table: 400/404/422 are low
// (validation and not-found), 401/403/429 are medium (authorization and
// rate limiting), 5xx is high (server failure, retry-eligible). Network
// transport errors, where no response was received at all, are high.
// Without a status, message-text heuristics decide; anything unmatched
// is medium.
func Classify(err error) Severity {
	if err == nil {
		return SeverityLow
	}

	var sc StatusCarrier
	if errors.As(err, &sc) {
		return classifyStatus(sc.HTTPStatus())
	}

	if isNetworkError(err) {
		return SeverityHigh
	}

	return classifyMessage(err.Error())
}

// classifyStatus maps an HTTP status code to a severity.
func classifyStatus(status int) Severity {
	switch {
	case status == 400 || status == 404 || status == 422:
		return SeverityLow
	case status == 401 || status == 403 || status == 429:
		return SeverityMedium
	case status >= 500 && status <= 599:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// isNetworkError reports whether err is a transport-level failure
// where no response was received.
func isNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// classifyMessage is the fallback keyword scan for errors without a
// status code.
func classifyMessage(msg string) Severity {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "network") || strings.Contains(lower, "connection"):
		return SeverityHigh
	case strings.Contains(lower, "validation") || strings.Contains(lower, "invalid"):
		return SeverityLow
	case strings.Contains(lower, "unauthorized") || strings.Contains(lower, "forbidden"):
		return SeverityMedium
	default:
		return SeverityMedium
	}
}

// Retryable reports whether a failure of this severity is eligible for
// automatic retry. Only server and transport failures qualify.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var sc StatusCarrier
	if errors.As(err, &sc) {
		status := sc.HTTPStatus()
		return status >= 500 && status <= 599
	}
	return isNetworkError(err)
}
