// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/queueview"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

// Response shapes mirror what the queue service returns on each
// action. Kept together so the wire contract is visible in one place.

type ticketResult struct {
	TicketID string                `cbor:"ticket_id" json:"ticket_id"`
	Content  *ticket.TicketContent `cbor:"content" json:"content"`
}

type taskResult struct {
	TicketID  string                `cbor:"ticket_id" json:"ticket_id"`
	Content   *ticket.TicketContent `cbor:"content" json:"content"`
	Added     []string              `cbor:"added" json:"added,omitempty"`
	Removed   []string              `cbor:"removed" json:"removed,omitempty"`
	BlockedBy string                `cbor:"blocked_by" json:"blocked_by,omitempty"`
}

type previewResult struct {
	Joinable  bool     `cbor:"joinable" json:"joinable"`
	Add       []string `cbor:"add" json:"add,omitempty"`
	Remove    []string `cbor:"remove" json:"remove,omitempty"`
	BlockedBy string   `cbor:"blocked_by" json:"blocked_by,omitempty"`
}

type listResult struct {
	Tickets []queueindex.Entry `cbor:"tickets" json:"tickets"`
}

type groupsResult struct {
	Buckets []queueview.Bucket `cbor:"buckets" json:"buckets"`
}

type snapshotResult struct {
	Snapshot queueview.Snapshot `cbor:"snapshot" json:"snapshot"`
	Digest   string             `cbor:"digest" json:"digest"`
}

type statusResult struct {
	UptimeSeconds float64 `cbor:"uptime_seconds" json:"uptime_seconds"`
}

type queueSummary struct {
	Queue       string           `cbor:"queue" json:"queue"`
	Stats       queueindex.Stats `cbor:"stats" json:"stats"`
	Subscribers int              `cbor:"subscribers" json:"subscribers"`
}

type infoResult struct {
	UptimeSeconds float64        `cbor:"uptime_seconds" json:"uptime_seconds"`
	Queues        int            `cbor:"queues" json:"queues"`
	TotalTickets  int            `cbor:"total_tickets" json:"total_tickets"`
	PendingTimers int            `cbor:"pending_timers" json:"pending_timers"`
	QueueDetails  []queueSummary `cbor:"queue_details" json:"queue_details"`
}

// subscribeFrame is one CBOR value on the watch stream.
type subscribeFrame struct {
	Type     string                `cbor:"type" json:"type"`
	TicketID string                `cbor:"ticket_id" json:"ticket_id,omitempty"`
	Content  *ticket.TicketContent `cbor:"content" json:"content,omitempty"`
	Config   *schema.QueueConfig   `cbor:"config" json:"config,omitempty"`
	Stats    *queueindex.Stats     `cbor:"stats" json:"stats,omitempty"`
	Message  string                `cbor:"message" json:"message,omitempty"`
}
