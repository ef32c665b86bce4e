// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"sort"

	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/service"
)

// registerActions wires every socket action. Mutations and queries
// are request-response; subscribe upgrades to a frame stream.
func (qs *QueueService) registerActions(server *service.SocketServer) {
	// Liveness and diagnostics.
	server.Handle("status", qs.handleStatus)
	server.Handle("info", qs.handleInfo)

	// Queue configuration.
	server.Handle("set-config", qs.handleSetConfig)
	server.Handle("get-config", qs.handleGetConfig)

	// Ticket lifecycle.
	server.Handle("create", qs.handleCreate)
	server.Handle("update", qs.handleUpdate)
	server.Handle("transition", qs.handleTransition)
	server.Handle("vote", qs.handleVote)

	// Tag and task membership.
	server.Handle("join-tag", qs.handleJoinTag)
	server.Handle("leave-tag", qs.handleLeaveTag)
	server.Handle("join-task", qs.handleJoinTask)
	server.Handle("leave-task", qs.handleLeaveTask)
	server.Handle("preview-join", qs.handlePreviewJoin)
	server.Handle("preview-leave", qs.handlePreviewLeave)
	server.Handle("set-progress", qs.handleSetProgress)

	// Views.
	server.Handle("snapshot", qs.handleSnapshot)
	server.Handle("groups", qs.handleGroups)
	server.Handle("list", qs.handleList)
	server.Handle("show", qs.handleShow)

	// Live feed.
	server.HandleStream("subscribe", qs.handleSubscribe)
}

// statusResponse answers the "status" liveness probe.
type statusResponse struct {
	UptimeSeconds float64 `cbor:"uptime_seconds"`
}

func (qs *QueueService) handleStatus(ctx context.Context, raw []byte) (any, error) {
	uptime := qs.clock.Now().Sub(qs.startedAt)
	return statusResponse{UptimeSeconds: uptime.Seconds()}, nil
}

// queueSummary is one queue's diagnostic line in the "info" response.
type queueSummary struct {
	Queue       string           `cbor:"queue"`
	Stats       queueindex.Stats `cbor:"stats"`
	Subscribers int              `cbor:"subscribers"`
}

// infoResponse answers the "info" diagnostic action.
type infoResponse struct {
	UptimeSeconds float64        `cbor:"uptime_seconds"`
	Queues        int            `cbor:"queues"`
	TotalTickets  int            `cbor:"total_tickets"`
	PendingTimers int            `cbor:"pending_timers"`
	QueueDetails  []queueSummary `cbor:"queue_details"`
}

func (qs *QueueService) handleInfo(ctx context.Context, raw []byte) (any, error) {
	qs.mu.RLock()
	defer qs.mu.RUnlock()

	names := make([]string, 0, len(qs.queues))
	for name := range qs.queues {
		names = append(names, name)
	}
	sort.Strings(names)

	response := infoResponse{
		UptimeSeconds: qs.clock.Now().Sub(qs.startedAt).Seconds(),
		Queues:        len(qs.queues),
		PendingTimers: qs.timers.Len(),
	}
	for _, name := range names {
		state := qs.queues[name]
		stats := state.index.Stats()
		response.TotalTickets += stats.Tickets
		response.QueueDetails = append(response.QueueDetails, queueSummary{
			Queue:       name,
			Stats:       stats,
			Subscribers: len(qs.subscribers[name]),
		})
	}
	return response, nil
}
