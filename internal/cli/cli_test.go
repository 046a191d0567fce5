// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"
)

func TestParseArgsDefaultIsTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("no args should start the TUI, got %v", cmd)
	}
}

func TestParseArgsAskJoinsQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "how", "do", "signals", "work"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "how do signals work" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsBareQuestionAsks(t *testing.T) {
	cmd, args := ParseArgs([]string{"what", "is", "an", "autoload"})
	if cmd != CmdAsk {
		t.Fatalf("a bare question should route to ask, got %v", cmd)
	}
	if args.Query != "what is an autoload" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--json", "--reddit", "-q", "ask", "q"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if !args.JSON || !args.Reddit || !args.Quiet {
		t.Errorf("flags not parsed: %+v", args)
	}
}

func TestParseArgsModelForms(t *testing.T) {
	_, args := ParseArgs([]string{"-m", "gpt-4o", "ask", "q"})
	if args.Model != "gpt-4o" {
		t.Errorf("-m form: Model = %q", args.Model)
	}
	_, args = ParseArgs([]string{"--model=gpt-4o-mini", "ask", "q"})
	if args.Model != "gpt-4o-mini" {
		t.Errorf("--model= form: Model = %q", args.Model)
	}
}

func TestParseArgsSubcommands(t *testing.T) {
	tests := []struct {
		argv    []string
		wantCmd Command
		wantSub string
	}{
		{[]string{"sessions"}, CmdSessions, ""},
		{[]string{"sessions", "list"}, CmdSessions, "list"},
		{[]string{"session", "delete", "sess_1"}, CmdSessions, "delete"},
		{[]string{"sources", "list"}, CmdSources, "list"},
		{[]string{"config", "set", "ui.theme", "dark"}, CmdConfig, "set"},
		{[]string{"chat"}, CmdChat, ""},
		{[]string{"version"}, CmdVersion, ""},
		{[]string{"help"}, CmdHelp, ""},
	}
	for _, tt := range tests {
		cmd, args := ParseArgs(tt.argv)
		if cmd != tt.wantCmd {
			t.Errorf("ParseArgs(%v) cmd = %v, want %v", tt.argv, cmd, tt.wantCmd)
		}
		if args.Subcommand != tt.wantSub {
			t.Errorf("ParseArgs(%v) sub = %q, want %q", tt.argv, args.Subcommand, tt.wantSub)
		}
	}
}

func TestParseArgsHelpAndVersionFlags(t *testing.T) {
	if cmd, _ := ParseArgs([]string{"-h"}); cmd != CmdHelp {
		t.Errorf("-h: got %v", cmd)
	}
	if cmd, _ := ParseArgs([]string{"--version"}); cmd != CmdVersion {
		t.Errorf("--version: got %v", cmd)
	}
}

func TestSourcesLine(t *testing.T) {
	if got := sourcesLine(nil); got != "" {
		t.Errorf("empty sources: %q", got)
	}
}
