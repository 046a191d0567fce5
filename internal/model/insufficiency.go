// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import "strings"

// InsufficiencyPredicate decides whether an assistant answer looks like it
// failed to find anything useful in the primary knowledge base, in which
// case the UI offers the external-source fallback search.
//
// This is a heuristic, not a contract: the predicate is pluggable so a
// better signal (a backend confidence score, a different language) can
// replace the keyword scan without touching call sites.
type InsufficiencyPredicate func(answer string) bool

// apologyMarkers are the phrases the default predicate scans for.
var apologyMarkers = []string{
	"sorry",
	"i apologize",
	"unable to",
	"i don't have",
	"i do not have",
	"couldn't find",
	"could not find",
	"no information",
	"not covered in",
}

// DefaultInsufficiencyPredicate is a case-insensitive keyword scan for
// apologetic phrasing.
func DefaultInsufficiencyPredicate(answer string) bool {
	lower := strings.ToLower(answer)
	for _, marker := range apologyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
