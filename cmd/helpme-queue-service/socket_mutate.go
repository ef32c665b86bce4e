// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/ubco-db/helpme-sub003/lib/codec"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
	"github.com/ubco-db/helpme-sub003/lib/taskgraph"
)

// ticketResponse is the standard mutation response: the ticket id and
// its post-mutation content.
type ticketResponse struct {
	TicketID string                `cbor:"ticket_id"`
	Content  *ticket.TicketContent `cbor:"content"`
}

// --- Queue configuration ---

// setConfigRequest carries an authored queue configuration. Config is
// the raw JSONC bytes as written by course staff; the service strips
// comments, validates fields, and builds the task forest against empty
// progress so cycles and dangling preconditions are refused before
// anything persists.
type setConfigRequest struct {
	Queue  string `cbor:"queue"`
	Config []byte `cbor:"config"`
}

func (qs *QueueService) handleSetConfig(ctx context.Context, raw []byte) (any, error) {
	var request setConfigRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Queue == "" {
		return nil, fmt.Errorf("missing required field: queue")
	}
	if len(request.Config) == 0 {
		return nil, fmt.Errorf("missing required field: config")
	}

	config, err := schema.ParseQueueConfig(request.Config)
	if err != nil {
		return nil, err
	}
	if _, err := taskgraph.Build(config.Tasks, nil); err != nil {
		return nil, err
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	if err := qs.store.SaveConfig(ctx, request.Queue, config); err != nil {
		return nil, err
	}

	state, ok := qs.queues[request.Queue]
	if ok {
		state.config = config
	} else {
		qs.queues[request.Queue] = newQueueState(config)
	}
	qs.broadcastConfig(request.Queue, config)

	qs.logger.Info("queue configured",
		"queue", request.Queue,
		"tags", len(config.Tags),
		"tasks", len(config.Tasks),
	)
	return config, nil
}

// --- Ticket lifecycle ---

// createRequest opens a new ticket. Force confirms deletion of an
// existing active ticket of the same kind before creating, the
// recovery path when a student wants to start over.
type createRequest struct {
	Queue    string      `cbor:"queue"`
	Actor    string      `cbor:"actor"`
	Role     ticket.Role `cbor:"role"`
	Kind     ticket.Kind `cbor:"kind"`
	Text     string      `cbor:"text"`
	Tags     []string    `cbor:"tags"`
	TaskIDs  []string    `cbor:"task_ids"`
	Location string      `cbor:"location"`
	Draft    bool        `cbor:"draft"`
	Force    bool        `cbor:"force"`
}

func (qs *QueueService) handleCreate(ctx context.Context, raw []byte) (any, error) {
	var request createRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := actorRole(request.Actor, request.Role); err != nil {
		return nil, err
	}
	if !request.Kind.Valid() {
		return nil, fmt.Errorf("unknown ticket kind %q", request.Kind)
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	if err := validateTags(state.config, request.Tags); err != nil {
		return nil, err
	}
	if err := validateTasks(state.config, request.TaskIDs); err != nil {
		return nil, err
	}
	if !request.Draft && request.Kind == ticket.KindQuestion &&
		len(request.Tags) < state.config.MinimumTags {
		return nil, fmt.Errorf("ticket carries %d tags, queue requires at least %d",
			len(request.Tags), state.config.MinimumTags)
	}

	// Admission: at most one non-terminal ticket per (owner, queue,
	// kind). The check and the create share this critical section,
	// so two racing submissions cannot both pass.
	if existingID, ok := state.index.Active(request.Actor, request.Kind); ok {
		if !request.Force {
			return nil, fmt.Errorf("%w: %s already has %s %q in this queue",
				errDuplicateActiveTicket, request.Actor, request.Kind, existingID)
		}
		if err := qs.confirmDelete(ctx, request.Queue, state, existingID); err != nil {
			return nil, err
		}
	}

	now := qs.now()
	status := ticket.StatusQueued
	if request.Draft {
		status = ticket.StatusDrafting
	}
	content := &ticket.TicketContent{
		Owner:     request.Actor,
		Kind:      request.Kind,
		Status:    status,
		Text:      request.Text,
		Tags:      request.Tags,
		TaskIDs:   request.TaskIDs,
		Location:  request.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}

	id := qs.newTicketID()
	if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
		return nil, err
	}
	state.index.Put(id, content)
	qs.broadcastPut(request.Queue, id, content)

	qs.logger.Info("ticket created",
		"queue", request.Queue,
		"ticket", id,
		"owner", request.Actor,
		"kind", request.Kind,
		"status", status,
	)
	return ticketResponse{TicketID: id, Content: content}, nil
}

// confirmDelete soft-deletes a displaced ticket during force-create.
// Must be called with mu held.
func (qs *QueueService) confirmDelete(ctx context.Context, queue string, state *queueState, id string) error {
	content, ok := state.index.Get(id)
	if !ok {
		return fmt.Errorf("%w: %q", errTicketNotFound, id)
	}
	content.Status = ticket.StatusConfirmedDeleted
	content.ClosedAt = qs.now()
	content.UpdatedAt = content.ClosedAt

	if err := qs.store.SaveTicket(ctx, queue, id, content); err != nil {
		return err
	}
	state.index.Put(id, content)
	qs.broadcastRemove(queue, id, content)
	return nil
}

// updateRequest edits ticket fields without changing status. Pointer
// fields distinguish "leave alone" from "set empty". Owners edit their
// own non-terminal tickets; only staff may set the helper.
type updateRequest struct {
	Queue   string      `cbor:"queue"`
	Ticket  string      `cbor:"ticket"`
	Actor   string      `cbor:"actor"`
	Role    ticket.Role `cbor:"role"`
	Text    *string     `cbor:"text"`
	Tags    *[]string   `cbor:"tags"`
	TaskIDs *[]string   `cbor:"task_ids"`
	Loc     *string     `cbor:"location"`
	Helper  *string     `cbor:"helper"`
}

func (qs *QueueService) handleUpdate(ctx context.Context, raw []byte) (any, error) {
	var request updateRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := actorRole(request.Actor, request.Role); err != nil {
		return nil, err
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	content, err := qs.requireTicket(state, request.Ticket)
	if err != nil {
		return nil, err
	}
	if content.Status.Terminal() {
		return nil, fmt.Errorf("ticket %s is %s, a terminal status", request.Ticket, content.Status)
	}

	ownerEdit := request.Text != nil || request.Tags != nil || request.TaskIDs != nil || request.Loc != nil
	if ownerEdit && request.Actor != content.Owner {
		return nil, fmt.Errorf("only the owner may edit ticket %s", request.Ticket)
	}
	if request.Helper != nil && request.Role != ticket.RoleStaff {
		return nil, fmt.Errorf("only staff may assign a helper")
	}

	if request.Text != nil {
		content.Text = *request.Text
	}
	if request.Loc != nil {
		content.Location = *request.Loc
	}
	if request.Tags != nil {
		if err := validateTags(state.config, *request.Tags); err != nil {
			return nil, err
		}
		content.Tags = *request.Tags
	}
	if request.TaskIDs != nil {
		if err := validateTasks(state.config, *request.TaskIDs); err != nil {
			return nil, err
		}
		content.TaskIDs = *request.TaskIDs
	}
	if request.Helper != nil {
		content.Helper = *request.Helper
	}
	content.UpdatedAt = qs.now()

	if err := content.Validate(); err != nil {
		return nil, err
	}
	if err := qs.store.SaveTicket(ctx, request.Queue, request.Ticket, content); err != nil {
		return nil, err
	}
	state.index.Put(request.Ticket, content)
	qs.broadcastPut(request.Queue, request.Ticket, content)

	return ticketResponse{TicketID: request.Ticket, Content: content}, nil
}

// transitionRequest moves a ticket through the lifecycle. From, when
// set, is the status the caller last observed: compare-and-set, so
// two racing transitions cannot both apply.
type transitionRequest struct {
	Queue  string        `cbor:"queue"`
	Ticket string        `cbor:"ticket"`
	Actor  string        `cbor:"actor"`
	Role   ticket.Role   `cbor:"role"`
	Status ticket.Status `cbor:"status"`
	From   ticket.Status `cbor:"from"`
}

func (qs *QueueService) handleTransition(ctx context.Context, raw []byte) (any, error) {
	var request transitionRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := actorRole(request.Actor, request.Role); err != nil {
		return nil, err
	}

	qs.mu.Lock()

	response, notify, err := qs.applyTransition(ctx, request)

	qs.mu.Unlock()
	if err != nil {
		return nil, err
	}

	// The notification hook runs outside the lock: delivery may be
	// slow and must not stall other mutations.
	if notify {
		qs.notifier.NotifyOwner(request.Queue, request.Ticket, response.Content)
	}
	return response, nil
}

// applyTransition validates and applies one status move. Must be
// called with mu held. Returns whether the owner notification hook
// must fire.
func (qs *QueueService) applyTransition(ctx context.Context, request transitionRequest) (ticketResponse, bool, error) {
	var zero ticketResponse

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return zero, false, err
	}
	content, err := qs.requireTicket(state, request.Ticket)
	if err != nil {
		return zero, false, err
	}

	if request.From != "" && request.From != content.Status {
		return zero, false, fmt.Errorf("%w: ticket is %s, caller expected %s",
			ticket.ErrIllegalTransition, content.Status, request.From)
	}

	isOwner := request.Actor == content.Owner
	current := content.Status
	target := request.Status
	if err := ticket.CheckTransition(current, target, request.Role, isOwner); err != nil {
		return zero, false, err
	}

	// Submitting a draft enforces the queue's tag minimum, same as a
	// direct non-draft create.
	if current == ticket.StatusDrafting && target == ticket.StatusQueued &&
		content.Kind == ticket.KindQuestion && len(content.Tags) < state.config.MinimumTags {
		return zero, false, fmt.Errorf("ticket carries %d tags, queue requires at least %d",
			len(content.Tags), state.config.MinimumTags)
	}

	now := qs.now()
	content.Status = target
	content.UpdatedAt = now

	if target == ticket.StatusHelping {
		content.Helper = request.Actor
		content.HelpedAt = now
	}
	if target.Terminal() {
		content.ClosedAt = now
	}

	if err := qs.store.SaveTicket(ctx, request.Queue, request.Ticket, content); err != nil {
		return zero, false, err
	}
	state.index.Put(request.Ticket, content)

	// A rejoin goes to the back of the line, not its old spot.
	rejoin := target == ticket.StatusQueued &&
		(current == ticket.StatusCantFind || current == ticket.StatusRequeueing)
	if rejoin {
		state.index.Requeue(request.Ticket)
	}

	if target.Terminal() {
		qs.broadcastRemove(request.Queue, request.Ticket, content)
	} else {
		qs.broadcastPut(request.Queue, request.Ticket, content)
	}

	// Arming on helping entry and lazy deletion elsewhere: any
	// explicit transition changes Status or HelpedAt, which
	// invalidates older heap entries without touching the heap.
	if target == ticket.StatusHelping {
		qs.armQuestionTimer(request.Queue, state, request.Ticket, content)
	}

	qs.logger.Info("ticket transitioned",
		"queue", request.Queue,
		"ticket", request.Ticket,
		"from", current,
		"to", target,
		"actor", request.Actor,
	)

	response := ticketResponse{TicketID: request.Ticket, Content: content}
	return response, ticket.NotifiesOwner(target), nil
}

// voteRequest adjusts a ticket's vote count for board sorts.
type voteRequest struct {
	Queue  string `cbor:"queue"`
	Ticket string `cbor:"ticket"`
	Actor  string `cbor:"actor"`
	Delta  int    `cbor:"delta"`
}

func (qs *QueueService) handleVote(ctx context.Context, raw []byte) (any, error) {
	var request voteRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" {
		return nil, fmt.Errorf("missing required field: actor")
	}
	if request.Delta != 1 && request.Delta != -1 {
		return nil, fmt.Errorf("delta must be +1 or -1, got %d", request.Delta)
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	content, err := qs.requireTicket(state, request.Ticket)
	if err != nil {
		return nil, err
	}
	if content.Status.Terminal() {
		return nil, fmt.Errorf("ticket %s is %s, a terminal status", request.Ticket, content.Status)
	}

	content.Votes += request.Delta
	content.UpdatedAt = qs.now()

	if err := qs.store.SaveTicket(ctx, request.Queue, request.Ticket, content); err != nil {
		return nil, err
	}
	state.index.Put(request.Ticket, content)
	qs.broadcastPut(request.Queue, request.Ticket, content)

	return ticketResponse{TicketID: request.Ticket, Content: content}, nil
}

// --- Tag membership ---

// tagRequest joins or leaves one tag on the caller's question ticket.
type tagRequest struct {
	Queue string `cbor:"queue"`
	Actor string `cbor:"actor"`
	Tag   string `cbor:"tag"`
}

func (qs *QueueService) handleJoinTag(ctx context.Context, raw []byte) (any, error) {
	var request tagRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" || request.Tag == "" {
		return nil, fmt.Errorf("actor and tag are required")
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	if err := validateTags(state.config, []string{request.Tag}); err != nil {
		return nil, err
	}

	// Joining a tag creates the caller's question ticket if they
	// have none; otherwise it extends the existing ticket's tag set.
	id, ok := state.index.Active(request.Actor, ticket.KindQuestion)
	if !ok {
		now := qs.now()
		content := &ticket.TicketContent{
			Owner:     request.Actor,
			Kind:      ticket.KindQuestion,
			Status:    ticket.StatusQueued,
			Tags:      []string{request.Tag},
			CreatedAt: now,
			UpdatedAt: now,
		}
		id = qs.newTicketID()
		if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
			return nil, err
		}
		state.index.Put(id, content)
		qs.broadcastPut(request.Queue, id, content)
		return ticketResponse{TicketID: id, Content: content}, nil
	}

	content, _ := state.index.Get(id)
	for _, tag := range content.Tags {
		if tag == request.Tag {
			return ticketResponse{TicketID: id, Content: content}, nil
		}
	}
	content.Tags = append(content.Tags, request.Tag)
	content.UpdatedAt = qs.now()

	if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
		return nil, err
	}
	state.index.Put(id, content)
	qs.broadcastPut(request.Queue, id, content)
	return ticketResponse{TicketID: id, Content: content}, nil
}

func (qs *QueueService) handleLeaveTag(ctx context.Context, raw []byte) (any, error) {
	var request tagRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" || request.Tag == "" {
		return nil, fmt.Errorf("actor and tag are required")
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	id, ok := state.index.Active(request.Actor, ticket.KindQuestion)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no active question ticket", errTicketNotFound, request.Actor)
	}
	content, _ := state.index.Get(id)

	kept := content.Tags[:0]
	for _, tag := range content.Tags {
		if tag != request.Tag {
			kept = append(kept, tag)
		}
	}
	content.Tags = kept
	content.UpdatedAt = qs.now()

	// Dropping the last tag of a ticket with no free text deletes
	// it: there is nothing left to ask about.
	if len(content.Tags) == 0 && content.Text == "" {
		content.Status = ticket.StatusStudentDeleted
		content.ClosedAt = content.UpdatedAt

		if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
			return nil, err
		}
		state.index.Put(id, content)
		qs.broadcastRemove(request.Queue, id, content)
		return ticketResponse{TicketID: id, Content: content}, nil
	}

	if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
		return nil, err
	}
	state.index.Put(id, content)
	qs.broadcastPut(request.Queue, id, content)
	return ticketResponse{TicketID: id, Content: content}, nil
}

// --- Task membership ---

// taskRequest joins or leaves one task on the caller's demo ticket.
type taskRequest struct {
	Queue string `cbor:"queue"`
	Actor string `cbor:"actor"`
	Task  string `cbor:"task"`
}

// taskResponse extends ticketResponse with the applied cascade.
type taskResponse struct {
	TicketID string                `cbor:"ticket_id"`
	Content  *ticket.TicketContent `cbor:"content"`

	// Added and Removed are the task ids the cascade touched,
	// the target included.
	Added   []string `cbor:"added,omitempty"`
	Removed []string `cbor:"removed,omitempty"`

	// BlockedBy names the blocking ancestor that cut a join short.
	// Ancestors below the block (listed in Added) still applied.
	BlockedBy string `cbor:"blocked_by,omitempty"`
}

func (qs *QueueService) handleJoinTask(ctx context.Context, raw []byte) (any, error) {
	var request taskRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" || request.Task == "" {
		return nil, fmt.Errorf("actor and task are required")
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	forest, err := taskgraph.Build(state.config.Tasks, state.progressFor(request.Actor))
	if err != nil {
		return nil, err
	}

	id, hasTicket := state.index.Active(request.Actor, ticket.KindDemo)
	var content *ticket.TicketContent
	if hasTicket {
		content, _ = state.index.Get(id)
	}

	var present taskgraph.Set
	if content != nil {
		present = taskgraph.NewSet(content.TaskIDs)
	} else {
		present = taskgraph.NewSet(nil)
	}

	plan, err := taskgraph.PlanJoin(forest, request.Task, present)
	if err != nil {
		return nil, err
	}
	if plan.Blocked() && len(plan.Add) == 0 {
		return nil, fmt.Errorf("%w: %q requires sign-off on blocking task %q",
			errTaskNotJoinable, request.Task, plan.BlockedBy)
	}

	now := qs.now()
	if content == nil {
		content = &ticket.TicketContent{
			Owner:     request.Actor,
			Kind:      ticket.KindDemo,
			Status:    ticket.StatusQueued,
			CreatedAt: now,
		}
		id = qs.newTicketID()
	}
	content.TaskIDs = append(content.TaskIDs, plan.Add...)
	content.UpdatedAt = now

	if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
		return nil, err
	}
	state.index.Put(id, content)
	qs.broadcastPut(request.Queue, id, content)

	return taskResponse{
		TicketID:  id,
		Content:   content,
		Added:     plan.Add,
		BlockedBy: plan.BlockedBy,
	}, nil
}

func (qs *QueueService) handleLeaveTask(ctx context.Context, raw []byte) (any, error) {
	var request taskRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if request.Actor == "" || request.Task == "" {
		return nil, fmt.Errorf("actor and task are required")
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	forest, err := taskgraph.Build(state.config.Tasks, state.progressFor(request.Actor))
	if err != nil {
		return nil, err
	}

	id, ok := state.index.Active(request.Actor, ticket.KindDemo)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no active demo ticket", errTicketNotFound, request.Actor)
	}
	content, _ := state.index.Get(id)

	plan, err := taskgraph.PlanLeave(forest, request.Task, taskgraph.NewSet(content.TaskIDs))
	if err != nil {
		return nil, err
	}

	doomed := taskgraph.NewSet(plan.Remove)
	kept := content.TaskIDs[:0]
	for _, task := range content.TaskIDs {
		if !doomed.Has(task) {
			kept = append(kept, task)
		}
	}
	content.TaskIDs = kept
	content.UpdatedAt = qs.now()

	// Mirror the tag rule: an empty demo ticket with no text is
	// deleted rather than left queued for nothing.
	if len(content.TaskIDs) == 0 && content.Text == "" {
		content.Status = ticket.StatusStudentDeleted
		content.ClosedAt = content.UpdatedAt

		if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
			return nil, err
		}
		state.index.Put(id, content)
		qs.broadcastRemove(request.Queue, id, content)
		return taskResponse{TicketID: id, Content: content, Removed: plan.Remove}, nil
	}

	if err := qs.store.SaveTicket(ctx, request.Queue, id, content); err != nil {
		return nil, err
	}
	state.index.Put(id, content)
	qs.broadcastPut(request.Queue, id, content)

	return taskResponse{TicketID: id, Content: content, Removed: plan.Remove}, nil
}

// --- Staff sign-off ---

// setProgressRequest records staff sign-off for one (student, task).
// Sign-off is what unlocks dependents of blocking tasks.
type setProgressRequest struct {
	Queue   string      `cbor:"queue"`
	Actor   string      `cbor:"actor"`
	Role    ticket.Role `cbor:"role"`
	Student string      `cbor:"student"`
	Task    string      `cbor:"task"`
	Done    bool        `cbor:"done"`
}

func (qs *QueueService) handleSetProgress(ctx context.Context, raw []byte) (any, error) {
	var request setProgressRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if err := actorRole(request.Actor, request.Role); err != nil {
		return nil, err
	}
	if request.Role != ticket.RoleStaff {
		return nil, fmt.Errorf("only staff may record task progress")
	}
	if request.Student == "" || request.Task == "" {
		return nil, fmt.Errorf("student and task are required")
	}

	qs.mu.Lock()
	defer qs.mu.Unlock()

	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		return nil, err
	}
	if err := validateTasks(state.config, []string{request.Task}); err != nil {
		return nil, err
	}

	if err := qs.store.SaveProgress(ctx, request.Queue, request.Student, request.Task, request.Done); err != nil {
		return nil, err
	}
	state.setProgress(request.Student, request.Task, request.Done)

	qs.logger.Info("task progress recorded",
		"queue", request.Queue,
		"student", request.Student,
		"task", request.Task,
		"done", request.Done,
		"staff", request.Actor,
	)
	return nil, nil
}

// --- Field validation helpers ---

func validateTags(config *schema.QueueConfig, tags []string) error {
	for _, tag := range tags {
		if _, ok := config.Tags[tag]; !ok {
			return fmt.Errorf("tag %q is not defined for this queue", tag)
		}
	}
	return nil
}

func validateTasks(config *schema.QueueConfig, tasks []string) error {
	for _, task := range tasks {
		if _, ok := config.Tasks[task]; !ok {
			return fmt.Errorf("task %q is not defined for this queue", task)
		}
	}
	return nil
}
