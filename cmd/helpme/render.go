// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)

	statusStyles = map[ticket.Status]lipgloss.Style{
		ticket.StatusDrafting:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ticket.StatusQueued:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		ticket.StatusHelping:    lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		ticket.StatusResolved:   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		ticket.StatusRequeueing: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		ticket.StatusCantFind:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// renderStatus colors a status name for terminal output. Terminal
// deletion statuses render faint; they only show up in explicit
// status-filtered listings.
func renderStatus(status ticket.Status) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(string(status))
	}
	return faintStyle.Render(string(status))
}

// swatch renders a colored dot in the configured hex color.
func swatch(colorHex string) string {
	if colorHex == "" {
		return " "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorHex)).Render("●")
}

// renderTags joins tag ids, each prefixed with its configured color
// swatch when the config is available.
func renderTags(tags []string, config *schema.QueueConfig) string {
	if len(tags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		if config != nil {
			if definition, ok := config.Tags[tag]; ok {
				parts = append(parts, swatch(definition.ColorHex)+" "+tag)
				continue
			}
		}
		parts = append(parts, tag)
	}
	return strings.Join(parts, ", ")
}

// writeTicketTable writes a compact ticket table to stdout.
func writeTicketTable(entries []queueindex.Entry, config *schema.QueueConfig) error {
	writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintf(writer, "ID\tSTATUS\tOWNER\tKIND\tVOTES\tDETAIL\n")
	for _, entry := range entries {
		content := entry.Content
		detail := renderTags(content.Tags, config)
		if content.Kind == ticket.KindDemo {
			detail = strings.Join(content.TaskIDs, ", ")
		}
		if detail == "" {
			detail = truncate(content.Text, 40)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%d\t%s\n",
			entry.ID,
			renderStatus(content.Status),
			content.Owner,
			content.Kind,
			content.Votes,
			detail,
		)
	}
	return writer.Flush()
}

// writeTicketDetail writes a full single-ticket view.
func writeTicketDetail(id string, content *ticket.TicketContent, config *schema.QueueConfig) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(writer, "ID:\t%s\n", id)
	fmt.Fprintf(writer, "Owner:\t%s\n", content.Owner)
	fmt.Fprintf(writer, "Kind:\t%s\n", content.Kind)
	fmt.Fprintf(writer, "Status:\t%s\n", renderStatus(content.Status))
	if len(content.Tags) > 0 {
		fmt.Fprintf(writer, "Tags:\t%s\n", renderTags(content.Tags, config))
	}
	if len(content.TaskIDs) > 0 {
		fmt.Fprintf(writer, "Tasks:\t%s\n", strings.Join(content.TaskIDs, ", "))
	}
	if content.Helper != "" {
		fmt.Fprintf(writer, "Helper:\t%s\n", content.Helper)
	}
	if content.Location != "" {
		fmt.Fprintf(writer, "Location:\t%s\n", content.Location)
	}
	if content.Votes != 0 {
		fmt.Fprintf(writer, "Votes:\t%d\n", content.Votes)
	}
	fmt.Fprintf(writer, "Created:\t%s\n", content.CreatedAt)
	fmt.Fprintf(writer, "Updated:\t%s\n", content.UpdatedAt)
	if content.HelpedAt != "" {
		fmt.Fprintf(writer, "Helped:\t%s\n", content.HelpedAt)
	}
	if content.ClosedAt != "" {
		fmt.Fprintf(writer, "Closed:\t%s\n", content.ClosedAt)
	}
	writer.Flush()

	if content.Text != "" {
		fmt.Printf("\n%s\n", content.Text)
	}
	return nil
}

// truncate shortens s to max display characters with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
