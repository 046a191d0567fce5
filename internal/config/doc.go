// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for gdchat.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.gdchat/config.toml
//   - ~/.gdchat/config.json
//   - Built-in defaults
//
// Environment overrides (applied last):
//   - GDCHAT_API_URL, GDCHAT_API_TIMEOUT
//   - GDCHAT_MAX_RETRIES, GDCHAT_RETRY_DELAY_MS
//   - GDCHAT_THEME, GDCHAT_MODEL
//
// # Key Types
//
//   - Config: the complete configuration tree
//   - Load: TOML → JSON → defaults resolution
//   - Watch: fsnotify-based reload on file change
package config
