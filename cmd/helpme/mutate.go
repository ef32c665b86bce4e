// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ubco-db/helpme-sub003/cmd/helpme/cli"
)

func createCommand() *cli.Command {
	var conn connection
	var kind, text, location string
	var tags, tasks []string
	var draft, force bool

	return &cli.Command{
		Name:    "create",
		Summary: "Open a new ticket",
		Description: `Open a question or demo ticket. At most one active ticket per kind
is allowed per queue; --force confirms deletion of the existing one
first. --draft creates the ticket invisibly to staff for later
submission with 'helpme transition <id> queued'.`,
		Usage: "helpme create --queue QUEUE --as USER --kind KIND [flags]",
		Examples: []cli.Example{
			{Description: "Ask a question", Command: "helpme create -q cs310 --as alice --kind question --tag hw1 --text 'stuck on part 2'"},
			{Description: "Start over", Command: "helpme create -q cs310 --as alice --kind question --tag hw2 --force"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.StringVar(&kind, "kind", "question", "ticket kind (question or demo)")
			fs.StringVar(&text, "text", "", "free-form description")
			fs.StringVar(&location, "location", "", "where staff can find you")
			fs.StringArrayVar(&tags, "tag", nil, "tag id (repeatable)")
			fs.StringArrayVar(&tasks, "task", nil, "task id (repeatable)")
			fs.BoolVar(&draft, "draft", false, "create as an unsubmitted draft")
			fs.BoolVar(&force, "force", false, "displace an existing active ticket")
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

			fields := map[string]any{
				"queue": conn.Queue, "actor": conn.User, "role": conn.Role,
				"kind": kind, "draft": draft, "force": force,
			}
			if text != "" {
				fields["text"] = text
			}
			if location != "" {
				fields["location"] = location
			}
			if len(tags) > 0 {
				fields["tags"] = tags
			}
			if len(tasks) > 0 {
				fields["task_ids"] = tasks
			}

			var result ticketResult
			if err := conn.client().Call(ctx, "create", fields, &result); err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			fmt.Printf("%s %s\n", result.TicketID, renderStatus(result.Content.Status))
			return nil
		},
	}
}

func transitionCommand() *cli.Command {
	var conn connection
	var from string

	return &cli.Command{
		Name:    "transition",
		Summary: "Move a ticket to a new status",
		Description: `Apply a lifecycle transition. --from makes the move conditional on
the status you last observed: if another caller moved the ticket in
between, the command fails instead of applying twice.`,
		Usage: "helpme transition <ticket-id> <status> --queue QUEUE --as USER [flags]",
		Examples: []cli.Example{
			{Description: "Claim the next ticket", Command: "helpme transition tk-7 helping -q cs310 --as ta-bob --role staff --from queued"},
			{Description: "Give up after cant_find", Command: "helpme transition tk-7 confirmed_deleted -q cs310 --as alice"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("transition", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.StringVar(&from, "from", "", "require the ticket to currently be in this status")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return cli.Validation("expected <ticket-id> <status>, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			fields := map[string]any{
				"queue": conn.Queue, "ticket": args[0],
				"actor": conn.User, "role": conn.Role,
				"status": args[1],
			}
			if from != "" {
				fields["from"] = from
			}

			var result ticketResult
			if err := conn.client().Call(ctx, "transition", fields, &result); err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			fmt.Printf("%s %s\n", result.TicketID, renderStatus(result.Content.Status))
			return nil
		},
	}
}

func updateCommand() *cli.Command {
	var conn connection
	var text, location, helper string
	var tags, tasks []string

	return &cli.Command{
		Name:    "update",
		Summary: "Edit ticket fields",
		Usage:   "helpme update <ticket-id> --queue QUEUE --as USER [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("update", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.StringVar(&text, "text", "", "replace the description")
			fs.StringVar(&location, "location", "", "replace the location")
			fs.StringVar(&helper, "helper", "", "assign a helper (staff only)")
			fs.StringArrayVar(&tags, "tag", nil, "replace the tag set (repeatable)")
			fs.StringArrayVar(&tasks, "task", nil, "replace the task set (repeatable)")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 ticket id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			fields := map[string]any{
				"queue": conn.Queue, "ticket": args[0],
				"actor": conn.User, "role": conn.Role,
			}
			if text != "" {
				fields["text"] = text
			}
			if location != "" {
				fields["location"] = location
			}
			if helper != "" {
				fields["helper"] = helper
			}
			if len(tags) > 0 {
				fields["tags"] = tags
			}
			if len(tasks) > 0 {
				fields["task_ids"] = tasks
			}

			var result ticketResult
			if err := conn.client().Call(ctx, "update", fields, &result); err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			return writeTicketDetail(result.TicketID, result.Content, nil)
		},
	}
}

func voteCommand() *cli.Command {
	var conn connection
	var down bool

	return &cli.Command{
		Name:    "vote",
		Summary: "Vote a ticket up or down",
		Usage:   "helpme vote <ticket-id> --queue QUEUE --as USER [--down]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("vote", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.BoolVar(&down, "down", false, "vote down instead of up")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 ticket id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			delta := 1
			if down {
				delta = -1
			}

			ctx, cancel := callContext()
			defer cancel()

			var result ticketResult
			err := conn.client().Call(ctx, "vote", map[string]any{
				"queue": conn.Queue, "ticket": args[0],
				"actor": conn.User, "delta": delta,
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			fmt.Printf("%s votes %d\n", result.TicketID, result.Content.Votes)
			return nil
		},
	}
}

func tagCommand() *cli.Command {
	return &cli.Command{
		Name:    "tag",
		Summary: "Join or leave a tag group",
		Subcommands: []*cli.Command{
			tagMembershipCommand("join", "join-tag",
				"Join a tag group (opens a question ticket if needed)"),
			tagMembershipCommand("leave", "leave-tag",
				"Leave a tag group (deletes an emptied textless ticket)"),
		},
	}
}

func tagMembershipCommand(name, action, summary string) *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   fmt.Sprintf("helpme tag %s <tag-id> --queue QUEUE --as USER", name),
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("tag "+name, pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 tag id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var result ticketResult
			err := conn.client().Call(ctx, action, map[string]any{
				"queue": conn.Queue, "actor": conn.User, "tag": args[0],
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}
			fmt.Printf("%s %s tags: %s\n", result.TicketID,
				renderStatus(result.Content.Status),
				strings.Join(result.Content.Tags, ", "))
			return nil
		},
	}
}

func taskCommand() *cli.Command {
	return &cli.Command{
		Name:    "task",
		Summary: "Join or leave a demo task",
		Subcommands: []*cli.Command{
			taskMembershipCommand("join", "join-task",
				"Join a task (pulls in absent preconditions; blocking tasks cut the chain)"),
			taskMembershipCommand("leave", "leave-task",
				"Leave a task (removes its present dependents too)"),
			taskPreviewCommand("preview-join", "preview-join",
				"Preview what joining a task would add"),
			taskPreviewCommand("preview-leave", "preview-leave",
				"Preview what leaving a task would remove"),
		},
	}
}

func taskMembershipCommand(name, action, summary string) *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   fmt.Sprintf("helpme task %s <task-id> --queue QUEUE --as USER", name),
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("task "+name, pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 task id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var result taskResult
			err := conn.client().Call(ctx, action, map[string]any{
				"queue": conn.Queue, "actor": conn.User, "task": args[0],
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}

			fmt.Printf("%s tasks: %s\n", result.TicketID,
				strings.Join(result.Content.TaskIDs, ", "))
			if result.BlockedBy != "" {
				fmt.Printf("blocked by %s: sign-off required before the remaining chain applies\n",
					result.BlockedBy)
			}
			return nil
		},
	}
}

func taskPreviewCommand(name, action, summary string) *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   fmt.Sprintf("helpme task %s <task-id> --queue QUEUE --as USER", name),
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("task "+name, pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 task id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, cancel := callContext()
			defer cancel()

			var result previewResult
			err := conn.client().Call(ctx, action, map[string]any{
				"queue": conn.Queue, "actor": conn.User, "task": args[0],
			}, &result)
			if err != nil {
				return err
			}
			if done, err := conn.emitJSON(result); done {
				return err
			}

			fmt.Printf("joinable: %t\n", result.Joinable)
			if len(result.Add) > 0 {
				fmt.Printf("would add: %s\n", strings.Join(result.Add, ", "))
			}
			if len(result.Remove) > 0 {
				fmt.Printf("would remove: %s\n", strings.Join(result.Remove, ", "))
			}
			if result.BlockedBy != "" {
				fmt.Printf("blocked by: %s\n", result.BlockedBy)
			}
			return nil
		},
	}
}

func progressCommand() *cli.Command {
	var conn connection
	var student string
	var clear bool

	return &cli.Command{
		Name:    "progress",
		Summary: "Record staff sign-off on a task",
		Description: `Mark a task done (or not done with --clear) for one student.
Sign-off on a blocking task is what unlocks its dependents for
joining.`,
		Usage: "helpme progress <task-id> --student STUDENT --queue QUEUE --as STAFF --role staff [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("progress", pflag.ContinueOnError)
			conn.addFlags(fs)
			fs.StringVar(&student, "student", "", "student the sign-off applies to")
			fs.BoolVar(&clear, "clear", false, "revoke the sign-off instead")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 task id, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}
			if student == "" {
				return cli.Validation("--student is required")
			}

			ctx, cancel := callContext()
			defer cancel()

			err := conn.client().Call(ctx, "set-progress", map[string]any{
				"queue": conn.Queue, "actor": conn.User, "role": conn.Role,
				"student": student, "task": args[0], "done": !clear,
			}, nil)
			if err != nil {
				return err
			}
			if clear {
				fmt.Printf("cleared %s for %s\n", args[0], student)
			} else {
				fmt.Printf("signed off %s for %s\n", args[0], student)
			}
			return nil
		},
	}
}

func configApplyCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "apply",
		Summary: "Apply a queue configuration from a JSONC file",
		Description: `Validate and apply a queue configuration. The file may contain
comments and trailing commas. The service refuses configurations with
invalid colors, dangling or cyclic task preconditions, or an
out-of-range tag minimum, and announces accepted changes to
subscribers.`,
		Usage: "helpme config apply <file> --queue QUEUE",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("config apply", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected 1 config file, got %d arguments", len(args))
			}
			if err := conn.requireQueue(); err != nil {
				return err
			}

			body, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading config: %w", err)
			}

			ctx, cancel := callContext()
			defer cancel()

			err = conn.client().Call(ctx, "set-config", map[string]any{
				"queue": conn.Queue, "config": body,
			}, nil)
			if err != nil {
				return err
			}
			fmt.Printf("configured queue %s\n", conn.Queue)
			return nil
		},
	}
}
