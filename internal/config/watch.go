// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for gdchat.
package config

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHING
// =============================================================================

// Watch reloads the configuration whenever the config directory
// changes, calling onChange with each successfully loaded config. It
// blocks until ctx is cancelled. Invalid intermediate states (partial
// writes, syntax errors mid-edit) are logged and skipped; the previous
// config stays in effect.
func Watch(ctx context.Context, onChange func(*Config)) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files by
	// rename, which drops a watch on the file itself.
	if err := watcher.Add(dir); err != nil {
		return err
	}

	// Collapse editor write bursts into one reload.
	var debounce *time.Timer
	const debounceDelay = 250 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isConfigFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				cfg, err := Load()
				if err != nil {
					log.Printf("config: reload skipped: %v", err)
					return
				}
				onChange(cfg)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("config: watch error: %v", err)
		}
	}
}

// isConfigFile reports whether path is one of the recognized config
// file names.
func isConfigFile(path string) bool {
	base := filepath.Base(path)
	return base == "config.toml" || base == "config.json"
}
