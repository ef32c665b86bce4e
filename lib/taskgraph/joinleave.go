// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package taskgraph

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound is wrapped when a plan names a task id absent from
// the forest.
var ErrTaskNotFound = errors.New("task not found")

// Set is a task id membership set, the structural representation of
// which tasks a demo ticket currently carries.
type Set map[string]struct{}

// NewSet builds a Set from a slice of task ids.
func NewSet(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// JoinPlan is the outcome of planning a join: the ancestors (and
// target) to add in root-ward order, or a partial prefix plus the
// blocking ancestor that stopped the walk.
type JoinPlan struct {
	// Add lists the task ids to add, precondition order (roots
	// first). When BlockedBy is empty the final entry is the target.
	Add []string

	// BlockedBy names the ancestor that is blocking and not done,
	// if the walk hit one. The target and any ancestors above the
	// block are refused; ids already collected in Add (below the
	// block) are still applied.
	BlockedBy string
}

// Blocked reports whether the join was refused.
func (p JoinPlan) Blocked() bool { return p.BlockedBy != "" }

// LeavePlan is the outcome of planning a leave: the target plus every
// transitive dependent currently present, all of which must be removed
// together. Removing a prerequisite invalidates everything built on it.
type LeavePlan struct {
	// Remove lists the task ids to remove: the target first, then
	// dependents in arena order.
	Remove []string
}

// Joinable reports whether clicking the task is a legal direct toggle
// for a viewer whose ticket carries the given present set. This is the
// affordance check for rendering, stricter than PlanJoin:
//
//   - a task whose effective precondition is not yet present is not
//     directly joinable (PlanJoin would pull the chain in; the
//     affordance shows the chain is incomplete),
//   - a blocking task restricts only its dependents, never itself,
//   - a present task with present dependents cannot be toggled off.
func Joinable(f *Forest, id string, present Set) bool {
	i, ok := f.index[id]
	if !ok {
		return false
	}
	node := f.Nodes[i]

	if present.Has(id) {
		// Toggle means leave: refused while anything present still
		// depends on this task.
		for _, j := range f.Dependents(i) {
			if present.Has(f.Nodes[j].ID) {
				return false
			}
		}
		return true
	}

	if node.Parent != NoParent {
		parent := f.Nodes[node.Parent]
		if !present.Has(parent.ID) {
			return false
		}
		if parent.Blocking && !parent.Done {
			return false
		}
	}
	return true
}

// PlanJoin computes the membership additions for joining a task. The
// effective precondition chain is walked from the root toward the
// target; each absent task is collected until the walk reaches a
// blocking, not-done ancestor, at which point the remainder of the
// chain and the target are refused (BlockedBy is set) while the
// already-collected prefix stands. The target's own blocking flag
// never refuses it.
func PlanJoin(f *Forest, id string, present Set) (JoinPlan, error) {
	chain, ok := f.Chain(id)
	if !ok {
		return JoinPlan{}, fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}

	var plan JoinPlan
	for _, i := range chain {
		node := f.Nodes[i]
		if node.ID != id && node.Blocking && !node.Done {
			plan.BlockedBy = node.ID
			return plan, nil
		}
		if !present.Has(node.ID) {
			plan.Add = append(plan.Add, node.ID)
		}
	}
	return plan, nil
}

// PlanLeave computes the membership removals for leaving a task: the
// target and, transitively, every present task whose effective
// precondition chain passes through it.
func PlanLeave(f *Forest, id string, present Set) (LeavePlan, error) {
	root, ok := f.index[id]
	if !ok {
		return LeavePlan{}, fmt.Errorf("%w: %q", ErrTaskNotFound, id)
	}

	var plan LeavePlan
	doomed := map[int]bool{root: true}
	plan.Remove = append(plan.Remove, id)

	// Arena order guarantees parents precede children, so one
	// forward pass finds the whole transitive closure.
	for i := root + 1; i < len(f.Nodes); i++ {
		node := f.Nodes[i]
		if node.Parent != NoParent && doomed[node.Parent] {
			doomed[i] = true
			if present.Has(node.ID) {
				plan.Remove = append(plan.Remove, node.ID)
			}
		}
	}
	return plan, nil
}
