// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler for the gdchat CLI.
//
// USABILITY: Markdown rendering for better CLI experience
//
// Handles "gdchat ask", which sends one question to the documentation
// assistant and prints the answer with its sources.
//
// Command: ask [question]
//
// Examples:
//
//	gdchat ask "How do I connect a signal in GDScript?"
//	gdchat ask --json "What is an autoload?"
//	gdchat ask --reddit "Why is my NavigationAgent2D jittering?"
//	echo "What does queue_free do?" | gdchat ask
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/gdchat-tui/internal/api"
	"github.com/jeranaias/gdchat-tui/internal/model"
	"github.com/jeranaias/gdchat-tui/internal/ui/components"
)

// HandleAsk answers a single question and exits.
func HandleAsk(args Args) {
	question := strings.TrimSpace(args.Query)
	if question == "" && !IsTTY() {
		// Piped question: gdchat ask < question.txt
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			fatal(fmt.Errorf("read stdin: %w", err))
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		fatal(fmt.Errorf("no question given; try: gdchat ask \"How do signals work?\""))
	}

	client, settings, err := newClient(args)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	var resp api.QueryResponse
	if args.Reddit {
		resp, err = client.QueryReddit(ctx, question, "", settings)
	} else {
		resp, err = client.Query(ctx, question, "", settings)
	}
	if err != nil {
		fatal(err)
	}

	printAnswer(resp, args)
}

// printAnswer writes a query response to stdout, rendered for the
// current output target.
func printAnswer(resp api.QueryResponse, args Args) {
	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fatal(err)
		}
		return
	}

	fmt.Println(renderAnswer(resp.Answer))

	if !args.Quiet && len(resp.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for i, src := range resp.Sources {
			fmt.Printf("  [%d] %s\n", i+1, src.Source)
		}
	}
}

// renderAnswer renders markdown for terminals and passes plain text
// through for pipes.
func renderAnswer(answer string) string {
	if !ColorEnabled() {
		return answer
	}
	width := TerminalWidth()
	if width > 100 {
		width = 100
	}
	r, err := components.NewMarkdownRenderer(width, true)
	if err != nil {
		return answer
	}
	return r.Render(answer)
}

// sourcesLine formats a compact source list, used by the chat REPL.
func sourcesLine(sources []model.SourceRef) string {
	if len(sources) == 0 {
		return ""
	}
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Source
	}
	return "sources: " + strings.Join(names, ", ")
}
