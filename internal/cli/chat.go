// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL chat for the gdchat CLI.
//
// USABILITY: Markdown rendering and history for better CLI experience
//
// Handles "gdchat chat": a line-oriented conversation loop for
// terminals where the full TUI is unwanted (ssh sessions, scripts
// driving a pty). Questions share one backend session so follow-ups
// have context.
//
// REPL commands:
//
//	/new      Start a fresh session
//	/reddit   Retry the last question against community sources
//	/help     Show commands
//	/quit     Exit
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/gdchat-tui/internal/config"
	"github.com/jeranaias/gdchat-tui/internal/model"
)

const chatHistoryFile = "cli_history"

// HandleChat runs the interactive REPL.
func HandleChat(args Args) {
	if !IsTTY() {
		fatal(fmt.Errorf("chat needs an interactive terminal; use 'gdchat ask' for piped input"))
	}

	client, settings, err := newClient(args)
	if err != nil {
		fatal(err)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := loadHistory(line)
	defer saveHistory(line, historyPath)

	sess := model.NewChatSession()
	ctx := context.Background()
	if _, err := client.CreateSession(ctx, sess.ID, sess.Title); err != nil {
		// The REPL still works without backend history.
		fmt.Fprintf(os.Stderr, "gdchat: session sync unavailable: %v\n", err)
	}

	if !args.Quiet {
		fmt.Println("gdchat - ask about Godot. /help for commands, /quit to exit.")
	}

	var lastQuestion string
	for {
		input, err := line.Prompt("godot> ")
		if err != nil {
			if err == liner.ErrPromptAborted {
				continue
			}
			// io.EOF on ctrl+d
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == "/quit" || input == "/exit":
			return
		case input == "/help":
			fmt.Println("  /new      start a fresh session")
			fmt.Println("  /reddit   retry the last question against community sources")
			fmt.Println("  /quit     exit")
			continue
		case input == "/new":
			sess = model.NewChatSession()
			if _, err := client.CreateSession(ctx, sess.ID, sess.Title); err != nil {
				fmt.Fprintf(os.Stderr, "gdchat: session sync unavailable: %v\n", err)
			}
			lastQuestion = ""
			fmt.Println("started a new session")
			continue
		case input == "/reddit":
			if lastQuestion == "" {
				fmt.Println("nothing to retry yet; ask a question first")
				continue
			}
			resp, err := client.QueryReddit(ctx, lastQuestion, sess.ID, settings)
			if err != nil {
				fmt.Fprintf(os.Stderr, "gdchat: %v\n", err)
				continue
			}
			sess.MarkExternalSourcesUsed()
			printReplAnswer(resp.Answer, sourcesLine(resp.Sources))
			continue
		case strings.HasPrefix(input, "/"):
			fmt.Printf("unknown command %s; /help lists commands\n", input)
			continue
		}

		resp, err := client.Query(ctx, input, sess.ID, settings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gdchat: %v\n", err)
			continue
		}
		lastQuestion = input
		printReplAnswer(resp.Answer, sourcesLine(resp.Sources))

		if model.DefaultInsufficiencyPredicate(resp.Answer) && !sess.ExternalSourcesUsed {
			fmt.Println("(no solid answer in the docs; /reddit retries against community sources)")
		}
	}
}

func printReplAnswer(answer, sources string) {
	fmt.Println(renderAnswer(answer))
	if sources != "" {
		fmt.Println("  " + sources)
	}
	fmt.Println()
}

// loadHistory reads the REPL history into the liner and returns the
// history path.
func loadHistory(line *liner.State) string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, chatHistoryFile)
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		_, _ = line.ReadHistory(f)
	}
	return path
}

// saveHistory writes the REPL history back out.
func saveHistory(line *liner.State, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = line.WriteHistory(f)
}
