// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sources_cmd.go - Knowledge-base source commands for the gdchat CLI.
//
// Command: sources [list|delete]
//
// Examples:
//
//	gdchat sources list
//	gdchat sources delete src-42
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// HandleSources routes the sources subcommands.
func HandleSources(args Args) {
	client, _, err := newClient(args)
	if err != nil {
		fatal(err)
	}
	ctx := context.Background()

	switch args.Subcommand {
	case "", "list":
		sources, err := client.ListSources(ctx)
		if err != nil {
			fatal(err)
		}
		if args.JSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(sources); err != nil {
				fatal(err)
			}
			return
		}
		if len(sources) == 0 {
			fmt.Println("no sources indexed")
			return
		}
		for _, src := range sources {
			fmt.Printf("%s  %-8s  %s\n", src.ID, src.Kind, src.Name)
		}

	case "delete":
		if len(args.Raw) < 2 {
			fatal(fmt.Errorf("usage: gdchat sources delete <id>"))
		}
		if err := client.DeleteSource(ctx, args.Raw[1]); err != nil {
			fatal(err)
		}
		fmt.Printf("deleted %s\n", args.Raw[1])

	default:
		fatal(fmt.Errorf("unknown sources subcommand %q; try list, delete", args.Subcommand))
	}
}
