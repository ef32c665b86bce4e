// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Command helpme is the terminal client for the office-hours queue
// service: submit and follow tickets, work the queue as staff, and
// manage queue configuration.
package main

import (
	"fmt"
	"os"

	"github.com/ubco-db/helpme-sub003/cmd/helpme/cli"
)

func main() {
	if err := root().Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func root() *cli.Command {
	return &cli.Command{
		Name:    "helpme",
		Summary: "Office-hours help queue client",
		Subcommands: []*cli.Command{
			statusCommand(),
			infoCommand(),
			createCommand(),
			updateCommand(),
			transitionCommand(),
			voteCommand(),
			listCommand(),
			showCommand(),
			snapshotCommand(),
			groupsCommand(),
			watchCommand(),
			tagCommand(),
			taskCommand(),
			progressCommand(),
			configCommand(),
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:    "config",
		Summary: "Show or apply queue configuration",
		Subcommands: []*cli.Command{
			configShowCommand(),
			configApplyCommand(),
		},
	}
}
