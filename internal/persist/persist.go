// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist provides best-effort local persistence for gdchat.
//
// State is stored as JSON files under ~/.gdchat/, one file per named
// key. The adapter never treats a failure as fatal: Load returns false
// for anything it cannot read or parse, and Save returns the error for
// the caller to log rather than panicking or aborting. Losing local
// state is always recoverable — sessions and messages are refetched
// from the backend, and settings fall back to defaults.
//
// Timestamps round-trip as RFC 3339 strings and come back as time.Time
// values through the standard JSON codec.
package persist

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jeranaias/gdchat-tui/internal/util"
)

// =============================================================================
// ADAPTER
// =============================================================================

// Adapter reads and writes named JSON blobs in a base directory.
type Adapter struct {
	// BaseDir is the directory holding the JSON files.
	// Default: ~/.gdchat/
	BaseDir string
}

// NewAdapter creates an adapter rooted at ~/.gdchat/, creating the
// directory if needed.
func NewAdapter() (*Adapter, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewAdapterAt(filepath.Join(homeDir, ".gdchat"))
}

// NewAdapterAt creates an adapter rooted at dir, creating it if needed.
func NewAdapterAt(dir string) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Adapter{BaseDir: dir}, nil
}

// path returns the file path for a named key.
func (a *Adapter) path(name string) string {
	return filepath.Join(a.BaseDir, name+".json")
}

// Load reads the named blob into out. It returns false when the key is
// absent or the stored bytes cannot be parsed; a corrupt file is
// treated the same as a missing one. The returned error is diagnostic
// only and is always paired with ok == false.
func (a *Adapter) Load(name string, out any) (ok bool, err error) {
	data, err := os.ReadFile(a.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

// Save serializes state and writes it atomically under name. Errors
// are returned, not raised: persistence is best-effort and must never
// take the application down.
func (a *Adapter) Save(name string, state any) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	// SECURITY: Settings may include identity fields; restrict to owner.
	return util.AtomicWriteFile(a.path(name), data, 0600)
}

// Remove deletes the named blob. Removing an absent key is a no-op.
func (a *Adapter) Remove(name string) error {
	err := os.Remove(a.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
