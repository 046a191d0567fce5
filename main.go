// gdchat - A terminal client for the Godot documentation assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/apperror"
	"github.com/jeranaias/gdchat-tui/internal/cli"
	"github.com/jeranaias/gdchat-tui/internal/config"
	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/persist"
	"github.com/jeranaias/gdchat-tui/internal/store"
	"github.com/jeranaias/gdchat-tui/internal/ui/chat"
	"github.com/jeranaias/gdchat-tui/internal/ui/components"
	"github.com/jeranaias/gdchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdSources:
		cli.HandleSources(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runTUI wires the application together and runs the Bubble Tea
// program.
func runTUI(args cli.Args) {
	// The TUI owns the terminal; route the standard logger to a file
	// so stray log lines don't corrupt the screen.
	restoreLog := redirectLog()
	defer restoreLog()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gdchat: %v\n", err)
		os.Exit(1)
	}
	if args.Model != "" {
		cfg.Query.Model = args.Model
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// State store with persisted UI preferences.
	st := store.NewStore()
	adapter, err := persist.NewAdapter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gdchat: %v\n", err)
		os.Exit(1)
	}
	store.Restore(st, adapter)
	st.SetChatSettings(model.ChatSettingsPatch{
		Model:         &cfg.Query.Model,
		Temperature:   &cfg.Query.Temperature,
		TopK:          &cfg.Query.TopK,
		MemoryService: &cfg.Query.MemoryService,
	})
	binding := store.Bind(st, adapter)
	defer binding.Close()

	client := api.NewClient(cfg.API).WithCaching(cfg.Cache.Enabled)

	// Error funnel: classified, logged, surfaced as toasts.
	toasts := components.NewToastManager()
	handler := apperror.NewHandler(apperror.NewLog(apperror.DefaultLogCapacity), toasts)
	defer handler.Recover(apperror.ActionUnknown)

	themeMode := styles.ParseThemeMode(st.Snapshot().AppSettings.Theme)
	if st.Snapshot().AppSettings.Theme == "" {
		themeMode = styles.ParseThemeMode(cfg.UI.Theme)
	}
	theme := styles.NewTheme(themeMode)

	m := chat.New(ctx, st, client, handler, toasts, theme)
	program := tea.NewProgram(m, tea.WithAltScreen())

	// Live-reload API and query settings on config file edits.
	go func() {
		err := config.Watch(ctx, func(next *config.Config) {
			st.SetChatSettings(model.ChatSettingsPatch{
				Model:         &next.Query.Model,
				Temperature:   &next.Query.Temperature,
				TopK:          &next.Query.TopK,
				MemoryService: &next.Query.MemoryService,
			})
		})
		if err != nil && ctx.Err() == nil {
			log.Printf("config watch unavailable: %v", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "gdchat: %v\n", err)
		os.Exit(1)
	}
}

// redirectLog points the standard logger at ~/.gdchat/gdchat.log while
// the TUI runs and returns a restore func.
func redirectLog() func() {
	dir, err := config.ConfigDir()
	if err != nil {
		return func() {}
	}
	if err := config.EnsureConfigDir(); err != nil {
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "gdchat.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return func() {}
	}
	prev := log.Writer()
	log.SetOutput(f)
	return func() {
		log.SetOutput(prev)
		f.Close()
	}
}
