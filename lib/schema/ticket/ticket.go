// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticket defines the ticket content model and the lifecycle
// state machine: the status vocabulary, the role-based transition
// table, and content validation. The queue service holds the indexed
// live set; this package owns what a ticket is and which status moves
// are legal for whom.
package ticket

import (
	"errors"
	"fmt"
)

// Kind distinguishes the two ticket types.
type Kind string

const (
	// KindQuestion is a free-form help request, categorized by tags.
	KindQuestion Kind = "question"

	// KindDemo is a check-off request for a set of assignment tasks,
	// gated by the task precondition forest.
	KindDemo Kind = "demo"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindQuestion || k == KindDemo
}

// Status is a ticket lifecycle state.
type Status string

const (
	// StatusDrafting is a ticket being composed. Not visible to
	// staff, but non-terminal: a draft holds the owner's admission
	// slot, so a second ticket of the same kind is refused while it
	// exists.
	StatusDrafting Status = "drafting"

	// StatusQueued is waiting in FIFO order for staff.
	StatusQueued Status = "queued"

	// StatusHelping means a staff member has claimed the ticket and
	// is actively helping. Entering this state records the helper
	// and may arm the queue's question timer.
	StatusHelping Status = "helping"

	// StatusResolved is the normal successful end state.
	StatusResolved Status = "resolved"

	// StatusRequeueing means staff finished a round of help but the
	// student needs to come back (multi-part demos). The owner
	// re-enters the queue from here or confirms deletion.
	StatusRequeueing Status = "requeueing"

	// StatusCantFind means staff could not locate the student. The
	// owner re-enters the queue from here or confirms deletion.
	StatusCantFind Status = "cant_find"

	// StatusTADeleted is a staff-initiated soft delete.
	StatusTADeleted Status = "ta_deleted"

	// StatusStudentDeleted is an owner-initiated soft delete.
	StatusStudentDeleted Status = "student_deleted"

	// StatusConfirmedDeleted is the owner acknowledging a cant_find
	// or requeueing outcome instead of rejoining, and the status
	// applied to a displaced ticket during force-create.
	StatusConfirmedDeleted Status = "confirmed_deleted"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDrafting, StatusQueued, StatusHelping, StatusResolved,
		StatusRequeueing, StatusCantFind, StatusTADeleted,
		StatusStudentDeleted, StatusConfirmedDeleted:
		return true
	}
	return false
}

// Terminal reports whether s ends the ticket's lifecycle. Terminal
// tickets release the owner's admission slot and accept no further
// transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusResolved, StatusTADeleted, StatusStudentDeleted, StatusConfirmedDeleted:
		return true
	}
	return false
}

// Role is the trust level the caller presents. Authentication is
// external; the service takes the role at face value.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleStaff
}

// TicketContent is the stored body of a ticket. The ticket id is the
// storage key, not a field. Persisted as canonical CBOR in the journal
// and sent verbatim in socket responses and subscribe frames.
type TicketContent struct {
	// Owner is the student who opened the ticket.
	Owner string `json:"owner"`

	// Kind is question or demo.
	Kind Kind `json:"kind"`

	// Status is the current lifecycle state.
	Status Status `json:"status"`

	// Text is the free-form description.
	Text string `json:"text,omitempty"`

	// Tags are the selected tag ids. Question tickets only.
	Tags []string `json:"tags,omitempty"`

	// TaskIDs are the selected task ids. Demo tickets only. Stored
	// structurally, never encoded into Text.
	TaskIDs []string `json:"task_ids,omitempty"`

	// Helper is the staff member set when the ticket enters helping.
	Helper string `json:"helper,omitempty"`

	// Location tells staff where to find the student.
	Location string `json:"location,omitempty"`

	// Votes is the net vote count used by board sorts.
	Votes int `json:"votes,omitempty"`

	// CreatedAt is an ISO 8601 timestamp.
	CreatedAt string `json:"created_at"`

	// UpdatedAt is an ISO 8601 timestamp of the last modification.
	UpdatedAt string `json:"updated_at"`

	// HelpedAt is set each time the ticket enters helping. Doubles
	// as the question-timer generation: a timer armed for one
	// helping entry never fires against a later one.
	HelpedAt string `json:"helped_at,omitempty"`

	// ClosedAt is set when the ticket enters a terminal status.
	ClosedAt string `json:"closed_at,omitempty"`
}

// Validate checks structural validity of the content.
func (t *TicketContent) Validate() error {
	if t.Owner == "" {
		return fmt.Errorf("ticket has no owner")
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("unknown ticket kind %q", t.Kind)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown ticket status %q", t.Status)
	}
	if t.Kind == KindQuestion && len(t.TaskIDs) > 0 {
		return fmt.Errorf("question ticket carries task ids")
	}
	if t.Kind == KindDemo && len(t.Tags) > 0 {
		return fmt.Errorf("demo ticket carries tags")
	}
	if t.CreatedAt == "" {
		return fmt.Errorf("ticket has no created_at")
	}
	if t.UpdatedAt == "" {
		return fmt.Errorf("ticket has no updated_at")
	}
	return nil
}

// Clone returns a deep copy. Index reads hand out shared pointers;
// mutation paths clone first.
func (t *TicketContent) Clone() *TicketContent {
	copied := *t
	if t.Tags != nil {
		copied.Tags = append([]string(nil), t.Tags...)
	}
	if t.TaskIDs != nil {
		copied.TaskIDs = append([]string(nil), t.TaskIDs...)
	}
	return &copied
}

// ErrIllegalTransition is the sentinel wrapped by every transition
// refusal: actor lacks permission, the move is not in the table, or
// the caller's compare-and-set status is stale.
var ErrIllegalTransition = errors.New("illegal transition")

// CheckTransition validates one status move against the lifecycle
// table. isOwner reports whether the actor owns the ticket; role is
// the actor's presented role. The table is exhaustive over
// (current, target, role, isOwner); anything not listed is refused.
//
// Owner moves: drafting → queued (submit), cant_find/requeueing →
// queued (rejoin) or confirmed_deleted (give up), any non-terminal →
// student_deleted.
//
// Staff moves: queued → helping (claim), helping → resolved /
// requeueing / cant_find, any non-terminal except drafting →
// ta_deleted. Drafts are invisible to staff.
func CheckTransition(current, target Status, role Role, isOwner bool) error {
	if !current.Valid() || !target.Valid() {
		return fmt.Errorf("%w: unknown status %q -> %q", ErrIllegalTransition, current, target)
	}
	if current.Terminal() {
		return fmt.Errorf("%w: ticket is %s, a terminal status", ErrIllegalTransition, current)
	}
	if current == target {
		return fmt.Errorf("%w: ticket is already %s", ErrIllegalTransition, current)
	}

	if isOwner {
		switch {
		case target == StatusStudentDeleted:
			return nil
		case current == StatusDrafting && target == StatusQueued:
			return nil
		case current == StatusCantFind && (target == StatusQueued || target == StatusConfirmedDeleted):
			return nil
		case current == StatusRequeueing && (target == StatusQueued || target == StatusConfirmedDeleted):
			return nil
		}
	}

	if role == RoleStaff {
		switch {
		case target == StatusTADeleted && current != StatusDrafting:
			return nil
		case current == StatusQueued && target == StatusHelping:
			return nil
		case current == StatusHelping &&
			(target == StatusResolved || target == StatusRequeueing || target == StatusCantFind):
			return nil
		}
	}

	actor := string(role)
	if isOwner {
		actor = "owner"
	}
	return fmt.Errorf("%w: %s may not move %s -> %s", ErrIllegalTransition, actor, current, target)
}

// NotifiesOwner reports whether entering target must trigger the
// owner-facing notification hook: the two statuses that require the
// student to act (come back, or rejoin the queue).
func NotifiesOwner(target Status) bool {
	return target == StatusCantFind || target == StatusRequeueing
}
