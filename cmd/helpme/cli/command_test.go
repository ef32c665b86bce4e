// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "tool",
		Subcommands: []*Command{
			{
				Name: "inner",
				Run: func(args []string) error {
					ran = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"inner", "a", "b"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 2 || ran[0] != "a" || ran[1] != "b" {
		t.Errorf("args = %v, want [a b]", ran)
	}
}

func TestExecuteUnknownSubcommand(t *testing.T) {
	root := &Command{
		Name:        "tool",
		Subcommands: []*Command{{Name: "inner", Run: func([]string) error { return nil }}},
	}

	err := root.Execute([]string{"outer"})
	if err == nil || !strings.Contains(err.Error(), `unknown command "outer"`) {
		t.Fatalf("err = %v, want unknown command", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var value string
	command := &Command{
		Name: "tool",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("tool", pflag.ContinueOnError)
			fs.StringVar(&value, "value", "", "")
			return fs
		},
		Run: func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"--value", "x", "positional"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if value != "x" {
		t.Errorf("value = %q, want x", value)
	}
}

func TestExecuteFlagError(t *testing.T) {
	command := &Command{
		Name: "tool",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("tool", pflag.ContinueOnError)
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--nope"})
	if err == nil || !strings.Contains(err.Error(), "--help") {
		t.Fatalf("err = %v, want flag error pointing at --help", err)
	}
}

func TestPrintHelpListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "tool",
		Summary: "does things",
		Subcommands: []*Command{
			{Name: "alpha", Summary: "first"},
			{Name: "beta", Summary: "second"},
		},
	}

	var out strings.Builder
	root.PrintHelp(&out)
	help := out.String()
	for _, want := range []string{"alpha", "first", "beta", "second", "tool <command>"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}
