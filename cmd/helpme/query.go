// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ubco-db/helpme-sub003/cmd/helpme/cli"
	"github.com/ubco-db/helpme-sub003/lib/schema"
)

func statusCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "status",
		Summary: "Check that the queue service is up",
		Usage:   "helpme status [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("status", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			ctx, cancel := callContext()
			defer cancel()

			var status statusResult
			if err := conn.client().Call(ctx, "status", nil, &status); err != nil {
				return err
			}
			if done, err := conn.emitJSON(status); done {
				return err
			}
			fmt.Printf("up %.0fs\n", status.UptimeSeconds)
			return nil
		},
	}
}

func infoCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "info",
		Summary: "Show service diagnostics and per-queue summaries",
		Usage:   "helpme info [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("info", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			ctx, cancel := callContext()
			defer cancel()

			var info infoResult
			if err := conn.client().Call(ctx, "info", nil, &info); err != nil {
				return err
			}
			if done, err := conn.emitJSON(info); done {
				return err
			}

			fmt.Printf("Uptime:  %.0fs\n", info.UptimeSeconds)
			fmt.Printf("Queues:  %d\n", info.Queues)
			fmt.Printf("Tickets: %d\n", info.TotalTickets)
			fmt.Printf("Timers:  %d\n", info.PendingTimers)

			if len(info.QueueDetails) > 0 {
				fmt.Println()
				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				fmt.Fprintf(writer, "QUEUE\tTICKETS\tACTIVE\tSUBSCRIBERS\n")
				for _, queue := range info.QueueDetails {
					fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n",
						queue.Queue, queue.Stats.Tickets, queue.Stats.Active, queue.Subscribers)
				}
				writer.Flush()
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	var conn connection
	var status, owner, tag, task, sortMode string

	return &cli.Command{
		Name:    "list",
		Summary: "List tickets in a queue",
		Description: `List tickets with optional filters. Filters use AND semantics.
Without --status, terminal tickets are omitted; name a terminal status
explicitly to inspect closed tickets.`,
		Usage: "helpme list --queue QUEUE [flags]",
		Examples: []cli.Example{
			{Description: "Waiting tickets, most voted first", Command: "helpme list -q cs310 --status queued --sort most_votes"},
			{Description: "One student's history", Command: "helpme list -q cs310 --owner alice --status resolved"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.StringVarP(&status, "status", "s", "", "filter by status")
			fs.StringVar(&owner, "owner", "", "filter by owner")
			fs.StringVarP(&tag, "tag", "t", "", "filter by tag")
			fs.StringVar(&task, "task", "", "filter by task")
			fs.StringVar(&sortMode, "sort", "", "sort order (newest, oldest, most_votes, least_votes)")
			return fs
		},
		Run: func(args []string) error {
			if err := conn.requireQueue(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			fields := map[string]any{"queue": conn.Queue, "viewer": conn.User}
			if status != "" {
				fields["status"] = status
			}
			if owner != "" {
				fields["owner"] = owner
			}
			if tag != "" {
				fields["tag"] = tag
			}
			if task != "" {
				fields["task"] = task
			}
			if sortMode != "" {
				fields["sort"] = sortMode
			}

			var result listResult
			if err := conn.client().Call(ctx, "list", fields, &result); err != nil {
				return err
			}
			if done, err := conn.emitJSON(result.Tickets); done {
				return err
			}
			if len(result.Tickets) == 0 {
				fmt.Println("no tickets")
				return nil
			}
			return writeTicketTable(result.Tickets, fetchConfig(ctx, &conn))
		},
	}
}

func showCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "show",
		Summary: "Show one ticket in full",
		Usage:   "helpme show <ticket-id> --queue QUEUE [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("show", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 ticket id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var result ticketResult
			err := conn.client().Call(ctx, "show", map[string]any{
				"queue": conn.Queue, "ticket": args[0], "viewer": conn.User,
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			return writeTicketDetail(result.TicketID, result.Content, fetchConfig(ctx, &conn))
		},
	}
}

func snapshotCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "snapshot",
		Summary: "Show the live queue partition for a viewer",
		Description: `Fetch the viewer's partitioned live view: waiting tickets in FIFO
order, tickets being helped, and the viewer's own tickets (drafts
included). The digest identifies the snapshot structurally; watch uses
it to skip redundant redraws.`,
		Usage: "helpme snapshot --queue QUEUE --as USER [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("snapshot", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var result snapshotResult
			err := conn.client().Call(ctx, "snapshot", map[string]any{
				"queue": conn.Queue, "viewer": conn.User,
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			return renderSnapshot(result, fetchConfig(ctx, &conn))
		},
	}
}

func groupsCommand() *cli.Command {
	var conn connection
	var mode string

	return &cli.Command{
		Name:    "groups",
		Summary: "Show the tag or task group board",
		Description: `Show the bucketed board: question tickets grouped by tag, or demo
tickets grouped by task with per-task joinability for the viewer.
Empty groups still appear so students can discover them.`,
		Usage: "helpme groups --queue QUEUE [--mode tags|tasks] [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("groups", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.StringVar(&mode, "mode", "tags", "grouping mode (tags or tasks)")
			return fs
		},
		Run: func(args []string) error {
			if err := conn.requireQueue(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var result groupsResult
			err := conn.client().Call(ctx, "groups", map[string]any{
				"queue": conn.Queue, "viewer": conn.User, "mode": mode,
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result.Buckets); done {
				return err
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, " \tGROUP\tNAME\tSTUDENTS\tJOINABLE\n")
			for _, bucket := range result.Buckets {
				joinable := ""
				if bucket.Joinable {
					joinable = "yes"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\n",
					swatch(bucket.ColorHex), bucket.ID, bucket.DisplayName,
					bucket.Students, joinable)
			}
			return writer.Flush()
		},
	}
}

func configShowCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "show",
		Summary: "Show a queue's configuration",
		Usage:   "helpme config show --queue QUEUE [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("config show", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if err := conn.requireQueue(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var config schema.QueueConfig
			err := conn.client().Call(ctx, "get-config", map[string]any{"queue": conn.Queue}, &config)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(config); done {
				return err
			}

			if config.MinimumTags > 0 {
				fmt.Printf("Minimum tags:   %d\n", config.MinimumTags)
			}
			if config.QuestionTimer > 0 {
				fmt.Printf("Question timer: %d min\n", config.QuestionTimer)
			}
			if config.AssignmentID != "" {
				fmt.Printf("Assignment:     %s\n", config.AssignmentID)
			}

			if len(config.Tags) > 0 {
				fmt.Println("\nTags:")
				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				for _, id := range sortedKeys(config.Tags) {
					tag := config.Tags[id]
					fmt.Fprintf(writer, "  %s\t%s\t%s\n", swatch(tag.ColorHex), id, tag.DisplayName)
				}
				writer.Flush()
			}

			if len(config.Tasks) > 0 {
				fmt.Println("\nTasks:")
				writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
				for _, id := range sortedKeys(config.Tasks) {
					task := config.Tasks[id]
					attributes := ""
					if task.Blocking {
						attributes = "blocking"
					}
					if task.Precondition != "" {
						if attributes != "" {
							attributes += ", "
						}
						attributes += "after " + task.Precondition
					}
					fmt.Fprintf(writer, "  %s\t%s\t%s\t%s\n", swatch(task.ColorHex), id, task.DisplayName, attributes)
				}
				writer.Flush()
			}
			return nil
		},
	}
}

// fetchConfig retrieves the queue config for rendering. Best effort:
// output falls back to uncolored ids when the call fails.
func fetchConfig(ctx context.Context, conn *connection) *schema.QueueConfig {
	var config schema.QueueConfig
	if err := conn.client().Call(ctx, "get-config", map[string]any{"queue": conn.Queue}, &config); err != nil {
		return nil
	}
	return &config
}

// renderSnapshot writes the three-way partition as labeled sections.
func renderSnapshot(result snapshotResult, config *schema.QueueConfig) error {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Waiting (%d)", len(result.Snapshot.Waiting))))
	if len(result.Snapshot.Waiting) > 0 {
		if err := writeTicketTable(result.Snapshot.Waiting, config); err != nil {
			return err
		}
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("\nBeing helped (%d)", len(result.Snapshot.BeingHelped))))
	if len(result.Snapshot.BeingHelped) > 0 {
		if err := writeTicketTable(result.Snapshot.BeingHelped, config); err != nil {
			return err
		}
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("\nYour tickets (%d)", len(result.Snapshot.OwnedByCaller))))
	if len(result.Snapshot.OwnedByCaller) > 0 {
		if err := writeTicketTable(result.Snapshot.OwnedByCaller, config); err != nil {
			return err
		}
	}

	fmt.Println(faintStyle.Render("\ndigest " + result.Digest[:16]))
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
