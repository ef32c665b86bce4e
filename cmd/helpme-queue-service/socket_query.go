// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/ubco-db/helpme-sub003/lib/codec"
	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/queueview"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
	"github.com/ubco-db/helpme-sub003/lib/taskgraph"
)

// queueRequest is the common body of single-queue reads.
type queueRequest struct {
	Queue string `cbor:"queue"`
}

func (qs *QueueService) handleGetConfig(ctx context.Context, raw []byte) (any, error) {
	var request queueRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	qs.mu.RLock()
	defer qs.mu.RUnlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	return state.config, nil
}

// snapshotRequest asks for the viewer's partitioned live view.
type snapshotRequest struct {
	Queue  string `cbor:"queue"`
	Viewer string `cbor:"viewer"`
}

// snapshotResponse pairs the snapshot with its structural digest, so a
// polling client can compare digests and skip unchanged redraws.
type snapshotResponse struct {
	Snapshot queueview.Snapshot `cbor:"snapshot"`
	Digest   string             `cbor:"digest"`
}

func (qs *QueueService) handleSnapshot(ctx context.Context, raw []byte) (any, error) {
	var request snapshotRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Viewer == "" {
		return nil, fmt.Errorf("missing required field: viewer")
	}

	qs.mu.RLock()
	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		qs.mu.RUnlock()
		return nil, err
	}
	entries := state.index.All()
	qs.mu.RUnlock()

	snap := queueview.Partition(entries, request.Viewer)
	digest, err := queueview.Digest(snap)
	if err != nil {
		return nil, err
	}
	return snapshotResponse{Snapshot: snap, Digest: digest}, nil
}

// groupsRequest asks for the bucketed board. Mode selects tag buckets
// (question tickets) or task buckets (demo tickets); task joinability
// is computed for the viewer.
type groupsRequest struct {
	Queue  string `cbor:"queue"`
	Viewer string `cbor:"viewer"`
	Mode   string `cbor:"mode"`
}

type groupsResponse struct {
	Buckets []queueview.Bucket `cbor:"buckets"`
}

func (qs *QueueService) handleGroups(ctx context.Context, raw []byte) (any, error) {
	var request groupsRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	qs.mu.RLock()
	defer qs.mu.RUnlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}

	switch request.Mode {
	case "tags", "":
		buckets := queueview.GroupByTag(state.index.All(), state.config)
		return groupsResponse{Buckets: buckets}, nil

	case "tasks":
		forest, err := taskgraph.Build(state.config.Tasks, state.progressFor(request.Viewer))
		if err != nil {
			return nil, err
		}
		viewerTasks := taskgraph.NewSet(nil)
		if id, ok := state.index.Active(request.Viewer, ticket.KindDemo); ok {
			if content, ok := state.index.Get(id); ok {
				viewerTasks = taskgraph.NewSet(content.TaskIDs)
			}
		}
		buckets := queueview.GroupByTask(state.index.All(), forest, viewerTasks)
		return groupsResponse{Buckets: buckets}, nil

	default:
		return nil, fmt.Errorf("unknown groups mode %q", request.Mode)
	}
}

// listRequest filters and orders the ticket board. Filters compose as
// an intersection; empty filters match everything non-terminal unless
// a terminal status is asked for explicitly.
type listRequest struct {
	Queue  string        `cbor:"queue"`
	Viewer string        `cbor:"viewer"`
	Status ticket.Status `cbor:"status"`
	Owner  string        `cbor:"owner"`
	Tag    string        `cbor:"tag"`
	Task   string        `cbor:"task"`
	Sort   string        `cbor:"sort"`
}

type listResponse struct {
	Tickets []queueindex.Entry `cbor:"tickets"`
}

func (qs *QueueService) handleList(ctx context.Context, raw []byte) (any, error) {
	var request listRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	qs.mu.RLock()
	defer qs.mu.RUnlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}

	// Start from the narrowest index the request names, then filter
	// the rest in one pass.
	var entries []queueindex.Entry
	switch {
	case request.Status != "":
		if !request.Status.Valid() {
			return nil, fmt.Errorf("unknown status %q", request.Status)
		}
		entries = state.index.ByStatus(request.Status)
	case request.Owner != "":
		entries = state.index.ByOwner(request.Owner)
	case request.Tag != "":
		entries = state.index.ByTag(request.Tag)
	case request.Task != "":
		entries = state.index.ByTask(request.Task)
	default:
		entries = state.index.All()
	}

	filtered := entries[:0]
	for _, entry := range entries {
		content := entry.Content
		if request.Status == "" && content.Status.Terminal() {
			continue
		}
		if content.Status == ticket.StatusDrafting && content.Owner != request.Viewer {
			continue
		}
		if request.Owner != "" && content.Owner != request.Owner {
			continue
		}
		if request.Tag != "" && !contains(content.Tags, request.Tag) {
			continue
		}
		if request.Task != "" && !contains(content.TaskIDs, request.Task) {
			continue
		}
		filtered = append(filtered, entry)
	}

	return listResponse{Tickets: queueview.SortBoard(filtered, request.Sort)}, nil
}

// showRequest fetches one ticket by id, drafts included for the owner.
type showRequest struct {
	Queue  string `cbor:"queue"`
	Ticket string `cbor:"ticket"`
	Viewer string `cbor:"viewer"`
}

func (qs *QueueService) handleShow(ctx context.Context, raw []byte) (any, error) {
	var request showRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	qs.mu.RLock()
	defer qs.mu.RUnlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	content, err := qs.requireTicket(state, request.Ticket)
	if err != nil {
		return nil, err
	}
	if content.Status == ticket.StatusDrafting && content.Owner != request.Viewer {
		return nil, fmt.Errorf("%w: %q", errTicketNotFound, request.Ticket)
	}
	return ticketResponse{TicketID: request.Ticket, Content: content}, nil
}

// previewResponse reports what a join or leave would do without doing
// it, so clients can render confirmations and disable dead toggles.
type previewResponse struct {
	Joinable  bool     `cbor:"joinable"`
	Add       []string `cbor:"add,omitempty"`
	Remove    []string `cbor:"remove,omitempty"`
	BlockedBy string   `cbor:"blocked_by,omitempty"`
}

func (qs *QueueService) handlePreviewJoin(ctx context.Context, raw []byte) (any, error) {
	var request taskRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" || request.Task == "" {
		return nil, fmt.Errorf("actor and task are required")
	}

	qs.mu.RLock()
	defer qs.mu.RUnlock()

	forest, present, err := qs.actorForest(request.Queue, request.Actor)
	if err != nil {
		return nil, err
	}
	plan, err := taskgraph.PlanJoin(forest, request.Task, present)
	if err != nil {
		return nil, err
	}
	return previewResponse{
		Joinable:  taskgraph.Joinable(forest, request.Task, present),
		Add:       plan.Add,
		BlockedBy: plan.BlockedBy,
	}, nil
}

func (qs *QueueService) handlePreviewLeave(ctx context.Context, raw []byte) (any, error) {
	var request taskRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" || request.Task == "" {
		return nil, fmt.Errorf("actor and task are required")
	}

	qs.mu.RLock()
	defer qs.mu.RUnlock()

	forest, present, err := qs.actorForest(request.Queue, request.Actor)
	if err != nil {
		return nil, err
	}
	plan, err := taskgraph.PlanLeave(forest, request.Task, present)
	if err != nil {
		return nil, err
	}
	return previewResponse{
		Joinable: taskgraph.Joinable(forest, request.Task, present),
		Remove:   plan.Remove,
	}, nil
}

// actorForest builds the actor's dependency forest and current task
// membership. Must be called with mu held.
func (qs *QueueService) actorForest(queue, actor string) (*taskgraph.Forest, taskgraph.Set, error) {
	state, err := qs.requireQueue(queue)
	if err != nil {
		return nil, nil, err
	}
	forest, err := taskgraph.Build(state.config.Tasks, state.progressFor(actor))
	if err != nil {
		return nil, nil, err
	}
	present := taskgraph.NewSet(nil)
	if id, ok := state.index.Active(actor, ticket.KindDemo); ok {
		if content, ok := state.index.Get(id); ok {
			present = taskgraph.NewSet(content.TaskIDs)
		}
	}
	return forest, present, nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
