// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package ticket

import (
	"errors"
	"testing"
)

func TestTerminal(t *testing.T) {
	terminal := []Status{StatusResolved, StatusTADeleted, StatusStudentDeleted, StatusConfirmedDeleted}
	active := []Status{StatusDrafting, StatusQueued, StatusHelping, StatusRequeueing, StatusCantFind}

	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range active {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestCheckTransitionTable(t *testing.T) {
	type move struct {
		current Status
		target  Status
		role    Role
		isOwner bool
		allowed bool
	}

	moves := []move{
		// Owner submits a draft.
		{StatusDrafting, StatusQueued, RoleStudent, true, true},
		{StatusDrafting, StatusQueued, RoleStudent, false, false},
		{StatusDrafting, StatusHelping, RoleStudent, true, false},

		// Staff claims from the queue; students cannot.
		{StatusQueued, StatusHelping, RoleStaff, false, true},
		{StatusQueued, StatusHelping, RoleStudent, false, false},
		{StatusQueued, StatusHelping, RoleStudent, true, false},
		{StatusQueued, StatusResolved, RoleStaff, false, false},

		// Staff outcomes from helping.
		{StatusHelping, StatusResolved, RoleStaff, false, true},
		{StatusHelping, StatusRequeueing, RoleStaff, false, true},
		{StatusHelping, StatusCantFind, RoleStaff, false, true},
		{StatusHelping, StatusQueued, RoleStaff, false, false},
		{StatusHelping, StatusResolved, RoleStudent, true, false},

		// Owner rejoins or gives up after cant_find / requeueing.
		{StatusCantFind, StatusQueued, RoleStudent, true, true},
		{StatusCantFind, StatusConfirmedDeleted, RoleStudent, true, true},
		{StatusRequeueing, StatusQueued, RoleStudent, true, true},
		{StatusRequeueing, StatusConfirmedDeleted, RoleStudent, true, true},
		{StatusCantFind, StatusQueued, RoleStudent, false, false},
		{StatusRequeueing, StatusHelping, RoleStudent, true, false},

		// Owner soft delete from any non-terminal state.
		{StatusDrafting, StatusStudentDeleted, RoleStudent, true, true},
		{StatusQueued, StatusStudentDeleted, RoleStudent, true, true},
		{StatusHelping, StatusStudentDeleted, RoleStudent, true, true},
		{StatusCantFind, StatusStudentDeleted, RoleStudent, true, true},
		{StatusQueued, StatusStudentDeleted, RoleStudent, false, false},

		// Staff soft delete from any non-terminal state except drafts.
		{StatusQueued, StatusTADeleted, RoleStaff, false, true},
		{StatusHelping, StatusTADeleted, RoleStaff, false, true},
		{StatusRequeueing, StatusTADeleted, RoleStaff, false, true},
		{StatusCantFind, StatusTADeleted, RoleStaff, false, true},
		{StatusDrafting, StatusTADeleted, RoleStaff, false, false},
		{StatusQueued, StatusTADeleted, RoleStudent, false, false},

		// Terminal states accept nothing.
		{StatusResolved, StatusQueued, RoleStaff, false, false},
		{StatusResolved, StatusQueued, RoleStudent, true, false},
		{StatusStudentDeleted, StatusQueued, RoleStudent, true, false},
		{StatusConfirmedDeleted, StatusQueued, RoleStudent, true, false},
		{StatusTADeleted, StatusHelping, RoleStaff, false, false},

		// No-op moves are refused.
		{StatusQueued, StatusQueued, RoleStaff, false, false},
	}

	for _, m := range moves {
		err := CheckTransition(m.current, m.target, m.role, m.isOwner)
		if m.allowed && err != nil {
			t.Errorf("%s -> %s (role=%s owner=%v): unexpected refusal: %v",
				m.current, m.target, m.role, m.isOwner, err)
		}
		if !m.allowed {
			if err == nil {
				t.Errorf("%s -> %s (role=%s owner=%v): expected refusal",
					m.current, m.target, m.role, m.isOwner)
			} else if !errors.Is(err, ErrIllegalTransition) {
				t.Errorf("%s -> %s: error %v does not wrap ErrIllegalTransition",
					m.current, m.target, err)
			}
		}
	}
}

func TestCheckTransitionUnknownStatus(t *testing.T) {
	if err := CheckTransition(Status("limbo"), StatusQueued, RoleStaff, false); err == nil {
		t.Fatal("unknown current status accepted")
	}
	if err := CheckTransition(StatusQueued, Status("limbo"), RoleStaff, false); err == nil {
		t.Fatal("unknown target status accepted")
	}
}

func TestNotifiesOwner(t *testing.T) {
	if !NotifiesOwner(StatusCantFind) || !NotifiesOwner(StatusRequeueing) {
		t.Error("cant_find and requeueing must notify the owner")
	}
	if NotifiesOwner(StatusResolved) || NotifiesOwner(StatusHelping) {
		t.Error("resolved and helping must not notify the owner")
	}
}

func TestValidate(t *testing.T) {
	valid := TicketContent{
		Owner:     "alice",
		Kind:      KindQuestion,
		Status:    StatusQueued,
		Tags:      []string{"setup"},
		CreatedAt: "2026-01-15T12:00:00Z",
		UpdatedAt: "2026-01-15T12:00:00Z",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	crossed := valid
	crossed.TaskIDs = []string{"t1"}
	if err := crossed.Validate(); err == nil {
		t.Error("question ticket with task ids accepted")
	}

	demo := valid
	demo.Kind = KindDemo
	if err := demo.Validate(); err == nil {
		t.Error("demo ticket with tags accepted")
	}

	orphan := valid
	orphan.Owner = ""
	if err := orphan.Validate(); err == nil {
		t.Error("ticket without owner accepted")
	}
}

func TestCloneIsDeep(t *testing.T) {
	original := &TicketContent{
		Owner:  "alice",
		Kind:   KindDemo,
		Status: StatusQueued,
		TaskIDs: []string{
			"t1", "t2",
		},
		CreatedAt: "2026-01-15T12:00:00Z",
		UpdatedAt: "2026-01-15T12:00:00Z",
	}

	copied := original.Clone()
	copied.TaskIDs[0] = "changed"
	copied.Status = StatusHelping

	if original.TaskIDs[0] != "t1" {
		t.Error("Clone shares the TaskIDs slice")
	}
	if original.Status != StatusQueued {
		t.Error("Clone shares scalar state")
	}
}
