// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the command-line surface of gdchat.

The default invocation starts the TUI; everything else is a one-shot
command for scripts and quick checks.

# Key Components

  - cli.go: argument parsing and command routing
  - ask.go: single-question handler with markdown output
  - chat.go: line-oriented REPL with history (peterh/liner)
  - sessions_cmd.go, sources_cmd.go: backend resource management
  - config_cmd.go: configuration inspection and updates
  - terminal.go: TTY and width detection

# Usage

	cmd, args := cli.Parse()
	switch cmd {
	case cli.CmdAsk:
		cli.HandleAsk(args)
	...
	}
*/
package cli
