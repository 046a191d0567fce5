// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring for CLI command handlers.
package cli

import (
	"fmt"
	"os"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/config"
	"github.com/jeranaias/gdchat-tui/internal/model"
)

// newClient loads the configuration and builds an API client plus the
// query settings derived from config and flags.
func newClient(args Args) (*api.Client, model.ChatSettings, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, model.ChatSettings{}, fmt.Errorf("load config: %w", err)
	}

	client := api.NewClient(cfg.API).WithCaching(cfg.Cache.Enabled)

	settings := model.DefaultChatSettings()
	settings.Model = cfg.Query.Model
	settings.Temperature = cfg.Query.Temperature
	settings.TopK = cfg.Query.TopK
	settings.MemoryService = cfg.Query.MemoryService
	if args.Model != "" {
		settings.Model = args.Model
	}
	return client, settings, nil
}

// fatal prints an error to stderr and exits non-zero.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "gdchat: %v\n", err)
	os.Exit(1)
}
