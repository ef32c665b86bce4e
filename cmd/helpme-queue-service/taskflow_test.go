// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"reflect"
	"testing"

	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

func TestJoinTagCreatesAndExtends(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	// No active question ticket yet: joining a tag opens one.
	var joined ticketResponse
	env.call("join-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw1",
	}, &joined)
	if joined.Content.Status != ticket.StatusQueued {
		t.Fatalf("status = %s, want queued", joined.Content.Status)
	}
	if !reflect.DeepEqual(joined.Content.Tags, []string{"hw1"}) {
		t.Fatalf("tags = %v, want [hw1]", joined.Content.Tags)
	}

	// A second join extends the same ticket.
	var extended ticketResponse
	env.call("join-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw2",
	}, &extended)
	if extended.TicketID != joined.TicketID {
		t.Fatalf("second join opened new ticket %s", extended.TicketID)
	}
	if !reflect.DeepEqual(extended.Content.Tags, []string{"hw1", "hw2"}) {
		t.Fatalf("tags = %v, want [hw1 hw2]", extended.Content.Tags)
	}

	// Joining an already-held tag is a no-op.
	var repeat ticketResponse
	env.call("join-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw1",
	}, &repeat)
	if !reflect.DeepEqual(repeat.Content.Tags, []string{"hw1", "hw2"}) {
		t.Fatalf("tags after repeat join = %v", repeat.Content.Tags)
	}

	env.callErr("join-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw9",
	}, "not defined")
}

func TestLeaveTagDeletesEmptyTicket(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	id := env.create("cs310", "alice", map[string]any{
		"kind": "question", "tags": []string{"hw1", "hw2"},
	}).TicketID

	var left ticketResponse
	env.call("leave-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw1",
	}, &left)
	if !reflect.DeepEqual(left.Content.Tags, []string{"hw2"}) {
		t.Fatalf("tags = %v, want [hw2]", left.Content.Tags)
	}

	// Dropping the last tag of a textless ticket deletes it.
	env.call("leave-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw2",
	}, &left)
	if left.Content.Status != ticket.StatusStudentDeleted {
		t.Fatalf("status = %s, want student_deleted", left.Content.Status)
	}
	if left.TicketID != id {
		t.Fatalf("leave-tag touched ticket %s, want %s", left.TicketID, id)
	}

	// With no active ticket, leave-tag has nothing to act on.
	env.callErr("leave-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw2",
	}, "no active question ticket")
}

func TestLeaveTagKeepsTicketWithText(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	env.create("cs310", "alice", map[string]any{
		"kind": "question", "text": "segfault in part 2", "tags": []string{"hw1"},
	})

	var left ticketResponse
	env.call("leave-tag", map[string]any{
		"queue": "cs310", "actor": "alice", "tag": "hw1",
	}, &left)
	if left.Content.Status != ticket.StatusQueued {
		t.Fatalf("status = %s, want queued", left.Content.Status)
	}
	if len(left.Content.Tags) != 0 {
		t.Fatalf("tags = %v, want none", left.Content.Tags)
	}
}

func TestJoinTaskChainAndBlocking(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	// Joining t3 pulls in the chain below the blocking t2: t1 applies,
	// t2 refuses the rest.
	var joined taskResponse
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t3",
	}, &joined)
	if !reflect.DeepEqual(joined.Added, []string{"t1"}) {
		t.Fatalf("added = %v, want [t1]", joined.Added)
	}
	if joined.BlockedBy != "t2" {
		t.Fatalf("blocked_by = %q, want t2", joined.BlockedBy)
	}
	if !reflect.DeepEqual(joined.Content.TaskIDs, []string{"t1"}) {
		t.Fatalf("task_ids = %v, want [t1]", joined.Content.TaskIDs)
	}

	// t2 itself is joinable: blocking restricts dependents, not the
	// task.
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t2",
	}, &joined)
	if !reflect.DeepEqual(joined.Content.TaskIDs, []string{"t1", "t2"}) {
		t.Fatalf("task_ids = %v, want [t1 t2]", joined.Content.TaskIDs)
	}

	// t3 stays refused while t2 lacks sign-off; with everything below
	// it already present there is nothing to partially apply.
	env.callErr("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t3",
	}, "task not joinable")

	// Staff sign-off on t2 unlocks t3.
	env.call("set-progress", map[string]any{
		"queue": "cs310", "actor": "ta-bob", "role": "staff",
		"student": "alice", "task": "t2", "done": true,
	}, nil)
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t3",
	}, &joined)
	if !reflect.DeepEqual(joined.Content.TaskIDs, []string{"t1", "t2", "t3"}) {
		t.Fatalf("task_ids = %v, want [t1 t2 t3]", joined.Content.TaskIDs)
	}
	if joined.BlockedBy != "" {
		t.Fatalf("blocked_by = %q, want empty", joined.BlockedBy)
	}
}

func TestLeaveTaskCascades(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	// Build up membership {t1, t2, t3} with t2 signed off.
	var joined taskResponse
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t2",
	}, &joined)
	env.call("set-progress", map[string]any{
		"queue": "cs310", "actor": "ta-bob", "role": "staff",
		"student": "alice", "task": "t2", "done": true,
	}, nil)
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t3",
	}, &joined)

	// Leaving t1 cascades to t2 (its dependent) but not t3: a signed
	// off precondition no longer links its dependents to the chain.
	var left taskResponse
	env.call("leave-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t1",
	}, &left)
	if !reflect.DeepEqual(left.Removed, []string{"t1", "t2"}) {
		t.Fatalf("removed = %v, want [t1 t2]", left.Removed)
	}
	if !reflect.DeepEqual(left.Content.TaskIDs, []string{"t3"}) {
		t.Fatalf("task_ids = %v, want [t3]", left.Content.TaskIDs)
	}

	// Leaving the last task of a textless ticket deletes it.
	env.call("leave-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t3",
	}, &left)
	if left.Content.Status != ticket.StatusStudentDeleted {
		t.Fatalf("status = %s, want student_deleted", left.Content.Status)
	}
}

func TestPreviewDoesNotMutate(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	var preview previewResponse
	env.call("preview-join", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t3",
	}, &preview)
	if preview.Joinable {
		t.Error("t3 reported joinable behind unsigned blocking t2")
	}
	if !reflect.DeepEqual(preview.Add, []string{"t1"}) {
		t.Errorf("add = %v, want [t1]", preview.Add)
	}
	if preview.BlockedBy != "t2" {
		t.Errorf("blocked_by = %q, want t2", preview.BlockedBy)
	}

	// Nothing was created.
	var board listResponse
	env.call("list", map[string]any{"queue": "cs310", "viewer": "alice"}, &board)
	if len(board.Tickets) != 0 {
		t.Fatalf("preview created %d tickets", len(board.Tickets))
	}

	var join taskResponse
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t2",
	}, &join)

	env.call("preview-leave", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t1",
	}, &preview)
	if !reflect.DeepEqual(preview.Remove, []string{"t1", "t2"}) {
		t.Errorf("remove = %v, want [t1 t2]", preview.Remove)
	}

	shown := env.show("cs310", join.TicketID, "alice")
	if !reflect.DeepEqual(shown.Content.TaskIDs, []string{"t1", "t2"}) {
		t.Fatalf("preview-leave mutated task_ids to %v", shown.Content.TaskIDs)
	}
}

func TestSetProgressRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	env.callErr("set-progress", map[string]any{
		"queue": "cs310", "actor": "alice", "role": "student",
		"student": "alice", "task": "t2", "done": true,
	}, "only staff")

	env.callErr("set-progress", map[string]any{
		"queue": "cs310", "actor": "ta-bob", "role": "staff",
		"student": "alice", "task": "t9", "done": true,
	}, "not defined")
}

func TestGroupsByTag(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	env.create("cs310", "alice", map[string]any{
		"kind": "question", "tags": []string{"hw1"},
	})
	env.create("cs310", "bob", map[string]any{
		"kind": "question", "tags": []string{"hw1"},
	})

	var groups groupsResponse
	env.call("groups", map[string]any{
		"queue": "cs310", "viewer": "carol", "mode": "tags",
	}, &groups)

	if len(groups.Buckets) != 2 {
		t.Fatalf("got %d buckets, want 2", len(groups.Buckets))
	}
	hw1, hw2 := groups.Buckets[0], groups.Buckets[1]
	if hw1.ID != "hw1" || hw1.Students != 2 || len(hw1.Tickets) != 2 {
		t.Errorf("hw1 bucket = %+v, want 2 students and 2 tickets", hw1)
	}
	// Empty tags still appear so students can discover them.
	if hw2.ID != "hw2" || hw2.Students != 0 || len(hw2.Tickets) != 0 {
		t.Errorf("hw2 bucket = %+v, want empty", hw2)
	}
}

func TestGroupsByTask(t *testing.T) {
	env := newTestEnv(t)
	env.setConfig("cs310", testQueueConfig)

	var joined taskResponse
	env.call("join-task", map[string]any{
		"queue": "cs310", "actor": "alice", "task": "t1",
	}, &joined)

	var groups groupsResponse
	env.call("groups", map[string]any{
		"queue": "cs310", "viewer": "alice", "mode": "tasks",
	}, &groups)

	if len(groups.Buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(groups.Buckets))
	}
	byID := make(map[string]int)
	for i, bucket := range groups.Buckets {
		byID[bucket.ID] = i
	}

	t1 := groups.Buckets[byID["t1"]]
	if t1.Students != 1 || !t1.Joinable {
		t.Errorf("t1 bucket = %+v, want 1 student, joinable", t1)
	}
	// t2's parent t1 is present and non-blocking, so t2 is joinable;
	// t3 sits behind the unsigned blocking t2.
	if !groups.Buckets[byID["t2"]].Joinable {
		t.Error("t2 not joinable with t1 present")
	}
	if groups.Buckets[byID["t3"]].Joinable {
		t.Error("t3 joinable behind unsigned blocking t2")
	}
}
