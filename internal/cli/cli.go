// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for gdchat.
//
// CLI: Comprehensive help and examples for all commands
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdSources
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format
	Model   string
	Reddit  bool // Route the question to community sources

	// Command-specific
	Query      string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `gdchat - Godot documentation assistant for the terminal

Gdchat answers questions about the Godot engine from its documentation,
with cited sources, chat history, and an optional community-source
fallback when the docs come up short.

Usage:
  gdchat                       Start TUI (default)
  gdchat ask "question"        Ask a single question
  gdchat chat                  Interactive chat (REPL)
  gdchat sessions [subcommand] Session management (list, delete)
  gdchat sources [subcommand]  Knowledge-base source management
  gdchat config [show|set]     Configuration
  gdchat version, -v           Show version
  gdchat help, -h              Show this help

Global flags:
  --json           Output in JSON format
  --model NAME     Override the answer model
  --reddit         Answer from community sources instead of the docs
  -q, --quiet      Minimal output
  --verbose        Verbose output

Examples:
  gdchat ask "How do I connect a signal in GDScript?"
  gdchat ask --json "What is an autoload?"
  gdchat ask --reddit "Why is my NavigationAgent2D jittering?"
  gdchat sessions list
  gdchat sessions delete sess_20250301120000
  gdchat config set api.base_url http://localhost:8000

Configuration:
  ~/.gdchat/config.toml (or config.json)
  Environment: GDCHAT_API_URL, GDCHAT_MODEL, GDCHAT_THEME, ...
`

// Parse reads os.Args and returns the command plus its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an argument list. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	args := Args{}
	var positional []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "--reddit":
			args.Reddit = true
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "--verbose":
			args.Verbose = true
		case arg == "-m" || arg == "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		case strings.HasPrefix(arg, "--model="):
			args.Model = strings.TrimPrefix(arg, "--model=")
		case arg == "-h" || arg == "--help":
			return CmdHelp, args
		case arg == "-v" || arg == "--version":
			return CmdVersion, args
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return CmdTUI, args
	}

	cmd := positional[0]
	rest := positional[1:]
	args.Raw = rest
	if len(rest) > 0 {
		args.Subcommand = rest[0]
	}

	switch cmd {
	case "ask":
		args.Query = strings.Join(rest, " ")
		args.Subcommand = ""
		return CmdAsk, args
	case "chat":
		return CmdChat, args
	case "session", "sessions":
		return CmdSessions, args
	case "source", "sources":
		return CmdSources, args
	case "config":
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		// Bare question: "gdchat how do signals work" just asks.
		args.Query = strings.Join(positional, " ")
		args.Subcommand = ""
		return CmdAsk, args
	}
}

// PrintUsage writes the help text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf(`{"version":%q,"commit":%q,"built":%q,"go":%q}`+"\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	fmt.Printf("gdchat %s (commit %s, built %s, %s)\n",
		Version, GitCommit, BuildDate, runtime.Version())
}
