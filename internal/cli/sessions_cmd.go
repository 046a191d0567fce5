// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions_cmd.go - Session management commands for the gdchat CLI.
//
// Command: sessions [list|show|delete]
//
// Examples:
//
//	gdchat sessions list
//	gdchat sessions show sess_20250301120000
//	gdchat sessions delete sess_20250301120000
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/gdchat-tui/internal/util"
)

// HandleSessions routes the sessions subcommands.
func HandleSessions(args Args) {
	client, _, err := newClient(args)
	if err != nil {
		fatal(err)
	}
	ctx := context.Background()

	switch args.Subcommand {
	case "", "list":
		sessions, err := client.ListSessions(ctx)
		if err != nil {
			fatal(err)
		}
		if args.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(sessions); err != nil {
				fatal(err)
			}
			return
		}
		if len(sessions) == 0 {
			fmt.Println("no sessions")
			return
		}
		for _, sess := range sessions {
			marker := " "
			if sess.Pinned {
				marker = "*"
			}
			external := ""
			if sess.ExternalSourcesUsed {
				external = " [community]"
			}
			fmt.Printf("%s %s  %s  %s%s\n",
				marker, sess.ID,
				sess.UpdatedAt.Local().Format("2006-01-02 15:04"),
				util.TruncateRunes(sess.Title, 48), external)
		}

	case "show":
		if len(args.Raw) < 2 {
			fatal(fmt.Errorf("usage: gdchat sessions show <id>"))
		}
		messages, err := client.ListMessages(ctx, args.Raw[1])
		if err != nil {
			fatal(err)
		}
		for _, msg := range messages {
			role := "assistant"
			if msg.IsUser {
				role = "you"
			}
			fmt.Printf("[%s] %s\n", role, msg.Content)
		}

	case "delete":
		if len(args.Raw) < 2 {
			fatal(fmt.Errorf("usage: gdchat sessions delete <id>"))
		}
		if err := client.DeleteSession(ctx, args.Raw[1]); err != nil {
			fatal(err)
		}
		fmt.Printf("deleted %s\n", args.Raw[1])

	default:
		fatal(fmt.Errorf("unknown sessions subcommand %q; try list, show, delete", args.Subcommand))
	}
}
