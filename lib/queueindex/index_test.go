// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package queueindex

import (
	"fmt"
	"testing"

	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

func question(owner string, status ticket.Status, tags ...string) *ticket.TicketContent {
	return &ticket.TicketContent{
		Owner:     owner,
		Kind:      ticket.KindQuestion,
		Status:    status,
		Tags:      tags,
		CreatedAt: "2026-01-15T12:00:00Z",
		UpdatedAt: "2026-01-15T12:00:00Z",
	}
}

func TestPutGetClones(t *testing.T) {
	x := New()
	content := question("alice", ticket.StatusQueued, "setup")
	x.Put("tk-1", content)

	content.Tags[0] = "mutated"
	got, ok := x.Get("tk-1")
	if !ok {
		t.Fatal("Get(tk-1) missing")
	}
	if got.Tags[0] != "setup" {
		t.Error("Put did not clone: caller mutation reached the index")
	}

	got.Status = ticket.StatusResolved
	again, _ := x.Get("tk-1")
	if again.Status != ticket.StatusQueued {
		t.Error("Get did not clone: reader mutation reached the index")
	}
}

func TestFIFOOrder(t *testing.T) {
	x := New()
	for i := 0; i < 5; i++ {
		x.Put(fmt.Sprintf("tk-%d", i), question(fmt.Sprintf("s%d", i), ticket.StatusQueued))
	}

	// Updating an early ticket must not move it.
	updated := question("s1", ticket.StatusQueued, "debug")
	x.Put("tk-1", updated)

	all := x.All()
	if len(all) != 5 {
		t.Fatalf("got %d entries, want 5", len(all))
	}
	for i, entry := range all {
		if want := fmt.Sprintf("tk-%d", i); entry.ID != want {
			t.Errorf("position %d = %s, want %s", i, entry.ID, want)
		}
	}
}

func TestRequeueMovesToBack(t *testing.T) {
	x := New()
	x.Put("tk-0", question("alice", ticket.StatusCantFind))
	x.Put("tk-1", question("bob", ticket.StatusQueued))

	rejoined := question("alice", ticket.StatusQueued)
	x.Put("tk-0", rejoined)
	x.Requeue("tk-0")

	all := x.All()
	if all[0].ID != "tk-1" || all[1].ID != "tk-0" {
		t.Fatalf("order after requeue = [%s %s], want [tk-1 tk-0]", all[0].ID, all[1].ID)
	}
}

func TestSecondaryIndexes(t *testing.T) {
	x := New()
	x.Put("tk-0", question("alice", ticket.StatusQueued, "setup", "debug"))
	x.Put("tk-1", question("bob", ticket.StatusHelping, "setup"))

	if got := x.ByTag("setup"); len(got) != 2 {
		t.Errorf("ByTag(setup) = %d entries, want 2", len(got))
	}
	if got := x.ByTag("debug"); len(got) != 1 || got[0].ID != "tk-0" {
		t.Errorf("ByTag(debug) wrong: %v", got)
	}
	if got := x.ByStatus(ticket.StatusHelping); len(got) != 1 || got[0].ID != "tk-1" {
		t.Errorf("ByStatus(helping) wrong: %v", got)
	}
	if got := x.ByOwner("alice"); len(got) != 1 || got[0].ID != "tk-0" {
		t.Errorf("ByOwner(alice) wrong: %v", got)
	}

	// Dropping a tag reindexes.
	x.Put("tk-0", question("alice", ticket.StatusQueued, "setup"))
	if got := x.ByTag("debug"); len(got) != 0 {
		t.Errorf("ByTag(debug) after retag = %d entries, want 0", len(got))
	}
}

func TestTaskIndex(t *testing.T) {
	x := New()
	x.Put("tk-0", &ticket.TicketContent{
		Owner: "alice", Kind: ticket.KindDemo, Status: ticket.StatusQueued,
		TaskIDs:   []string{"t1", "t2"},
		CreatedAt: "2026-01-15T12:00:00Z", UpdatedAt: "2026-01-15T12:00:00Z",
	})

	if got := x.ByTask("t2"); len(got) != 1 || got[0].ID != "tk-0" {
		t.Errorf("ByTask(t2) wrong: %v", got)
	}
	if got := x.ByTask("t9"); len(got) != 0 {
		t.Errorf("ByTask(t9) = %d entries, want 0", len(got))
	}
}

func TestActive(t *testing.T) {
	x := New()
	x.Put("tk-0", question("alice", ticket.StatusResolved))
	if _, ok := x.Active("alice", ticket.KindQuestion); ok {
		t.Error("terminal ticket counted as active")
	}

	x.Put("tk-1", question("alice", ticket.StatusQueued))
	id, ok := x.Active("alice", ticket.KindQuestion)
	if !ok || id != "tk-1" {
		t.Errorf("Active = %q, %v; want tk-1, true", id, ok)
	}

	// Kind is part of the admission key: a queued question does not
	// block a demo.
	if _, ok := x.Active("alice", ticket.KindDemo); ok {
		t.Error("question ticket blocked demo admission")
	}
	if _, ok := x.Active("bob", ticket.KindQuestion); ok {
		t.Error("alice's ticket blocked bob")
	}
}

func TestStats(t *testing.T) {
	x := New()
	x.Put("tk-0", question("alice", ticket.StatusQueued))
	x.Put("tk-1", question("bob", ticket.StatusResolved))
	x.Put("tk-2", question("carol", ticket.StatusHelping))

	s := x.Stats()
	if s.Tickets != 3 || s.Active != 2 {
		t.Errorf("Stats = %+v, want 3 tickets, 2 active", s)
	}
	if s.ByStatus[ticket.StatusQueued] != 1 || s.ByStatus[ticket.StatusResolved] != 1 {
		t.Errorf("ByStatus wrong: %+v", s.ByStatus)
	}
}

func TestRemove(t *testing.T) {
	x := New()
	x.Put("tk-0", question("alice", ticket.StatusQueued, "setup"))
	x.Remove("tk-0")

	if _, ok := x.Get("tk-0"); ok {
		t.Error("removed ticket still present")
	}
	if got := x.ByTag("setup"); len(got) != 0 {
		t.Error("removed ticket still tagged")
	}
	if x.Len() != 0 {
		t.Errorf("Len = %d, want 0", x.Len())
	}
}
