// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apperror classifies failures and routes them to the user.
package apperror

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ERROR LOG
// =============================================================================

// DefaultLogCapacity bounds the in-memory error log.
const DefaultLogCapacity = 100

// Entry is one recorded failure.
type Entry struct {
	ID       string
	Time     time.Time
	Err      error
	Action   Action
	Severity Severity
	Handled  bool
}

// Log is a bounded in-memory ring of recent errors, newest first. When
// full, the oldest entry is evicted. Entries never leave the process;
// the log exists for correlation and debugging, not durability.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
}

// NewLog creates a log holding at most capacity entries. Non-positive
// capacity uses the default.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Record stores an error at the front of the log and returns the fresh
// entry ID for later correlation.
func (l *Log) Record(err error, action Action, severity Severity) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:       uuid.NewString(),
		Time:     time.Now(),
		Err:      err,
		Action:   action,
		Severity: severity,
	}

	l.entries = append([]Entry{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}

	return entry.ID
}

// MarkHandled flags the entry with the given ID as handled.
func (l *Log) MarkHandled(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries[i].Handled = true
			return
		}
	}
}

// Recent returns a copy of the log, newest first.
func (l *Log) Recent() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
