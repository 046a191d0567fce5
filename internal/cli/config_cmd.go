// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands for the gdchat CLI.
//
// Command: config [show|set|path]
//
// Examples:
//
//	gdchat config show
//	gdchat config set api.base_url http://localhost:8000
//	gdchat config set query.model gpt-4o
//	gdchat config set ui.theme light
//	gdchat config reset
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/gdchat-tui/internal/config"
)

// HandleConfig routes the config subcommands.
func HandleConfig(args Args) {
	switch args.Subcommand {
	case "", "show":
		cfg, err := config.Load()
		if err != nil {
			fatal(err)
		}
		if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
			fatal(err)
		}

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			fatal(err)
		}
		fmt.Println(path)

	case "set":
		if len(args.Raw) < 3 {
			fatal(fmt.Errorf("usage: gdchat config set <key> <value>"))
		}
		if err := setConfigKey(args.Raw[1], args.Raw[2]); err != nil {
			fatal(err)
		}
		fmt.Printf("set %s = %s\n", args.Raw[1], args.Raw[2])

	case "reset":
		cfg := config.Default()
		if err := config.Save(cfg); err != nil {
			fatal(err)
		}
		fmt.Println("config reset to defaults")

	default:
		fatal(fmt.Errorf("unknown config subcommand %q; try show, set, path, reset", args.Subcommand))
	}
}

// setConfigKey updates one dotted key and saves the config back out.
func setConfigKey(key, value string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
		cfg.API.TimeoutSecs = n
	case "api.max_retries":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
		cfg.API.MaxRetries = n
	case "query.model":
		cfg.Query.Model = value
	case "query.temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
		cfg.Query.Temperature = f
	case "query.top_k":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
		cfg.Query.TopK = n
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants true or false: %w", key, err)
		}
		cfg.Cache.Enabled = b
	case "ui.theme":
		cfg.UI.Theme = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Save(cfg)
}
