// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management
// for gdchat.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/gdchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gdchat configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// API configuration for the documentation assistant backend
	API APIConfig `toml:"api" json:"api"`

	// Query defaults
	Query QueryConfig `toml:"query" json:"query"`

	// Cache configuration
	Cache CacheConfig `toml:"cache" json:"cache"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the root of the assistant API
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs bounds a single request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the attempt budget for transient failures
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RetryDelayMs is the base wait before the first retry
	RetryDelayMs int `toml:"retry_delay_ms" json:"retry_delay_ms"`
	// RateLimitPerSec caps outgoing requests (0 = unlimited)
	RateLimitPerSec float64 `toml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
}

// QueryConfig contains default query parameters.
type QueryConfig struct {
	// Model is the default model name sent with queries
	Model string `toml:"model" json:"model"`
	// Temperature for answer generation
	Temperature float64 `toml:"temperature" json:"temperature"`
	// TopK retrieval depth
	TopK int `toml:"top_k" json:"top_k"`
	// MemoryService selects the conversation memory backend
	MemoryService string `toml:"memory_service" json:"memory_service"`
}

// CacheConfig contains response cache configuration.
type CacheConfig struct {
	// Enabled turns the query-response cache on
	Enabled bool `toml:"enabled" json:"enabled"`
	// QueryTTLMinutes bounds staleness of cached answers
	QueryTTLMinutes int `toml:"query_ttl_minutes" json:"query_ttl_minutes"`
	// ListTTLMinutes bounds staleness of cached session/source lists
	ListTTLMinutes int `toml:"list_ttl_minutes" json:"list_ttl_minutes"`
	// MaxEntries caps the query cache
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto" (detect from terminal)
	Theme string `toml:"theme" json:"theme"`
	// ShowSources renders source citations under answers
	ShowSources bool `toml:"show_sources" json:"show_sources"`
	// CompactMode reduces vertical padding
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		API: APIConfig{
			BaseURL:         "http://127.0.0.1:8000",
			TimeoutSecs:     30,
			MaxRetries:      3,
			RetryDelayMs:    1000,
			RateLimitPerSec: 4,
		},
		Query: QueryConfig{
			Model:         "gpt-4o-mini",
			Temperature:   0.2,
			TopK:          5,
			MemoryService: "default",
		},
		Cache: CacheConfig{
			Enabled:         true,
			QueryTTLMinutes: 10,
			ListTTLMinutes:  5,
			MaxEntries:      100,
		},
		UI: UIConfig{
			Theme:       "auto",
			ShowSources: true,
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gdchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gdchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finish(cfg)
		}
	}

	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finish(cfg)
		}
	}

	return finish(cfg)
}

// LoadFromPath loads configuration from an explicit path, picking the
// codec from the extension.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.HasSuffix(path, ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// finish applies env overrides, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// fillDefaults backfills zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = def.API.MaxRetries
	}
	if c.API.RetryDelayMs <= 0 {
		c.API.RetryDelayMs = def.API.RetryDelayMs
	}
	if c.Query.Model == "" {
		c.Query.Model = def.Query.Model
	}
	if c.Query.TopK <= 0 {
		c.Query.TopK = def.Query.TopK
	}
	if c.Query.MemoryService == "" {
		c.Query.MemoryService = def.Query.MemoryService
	}
	if c.Cache.QueryTTLMinutes <= 0 {
		c.Cache.QueryTTLMinutes = def.Cache.QueryTTLMinutes
	}
	if c.Cache.ListTTLMinutes <= 0 {
		c.Cache.ListTTLMinutes = def.Cache.ListTTLMinutes
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = def.Cache.MaxEntries
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies GDCHAT_* environment variables on top of
// whatever was loaded from disk.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("GDCHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GDCHAT_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("GDCHAT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.MaxRetries = n
		}
	}
	if v := os.Getenv("GDCHAT_RETRY_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.API.RetryDelayMs = ms
		}
	}
	if v := os.Getenv("GDCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("GDCHAT_MODEL"); v != "" {
		c.Query.Model = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return ValidationError{Field: "api.base_url", Message: "must be a valid URL"}
	}
	if c.API.TimeoutSecs <= 0 {
		return ValidationError{Field: "api.timeout_secs", Message: "must be positive"}
	}
	if c.Query.Temperature < 0 || c.Query.Temperature > 2 {
		return ValidationError{Field: "query.temperature", Message: "must be in [0, 2]"}
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return ValidationError{Field: "ui.theme", Message: "must be dark, light, or auto"}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML path.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration as TOML.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(buf.String()), 0600)
}

// SaveJSON writes the configuration as JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0600)
}
