// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package taskgraph builds the resolved task dependency forest from a
// queue's authored task configuration and one student's assignment
// progress, and computes join/leave plans over it.
//
// The forest is an arena of nodes with parent links stored as indices,
// so identical inputs always produce structurally identical output and
// a forest can be compared or serialized in tests without chasing
// pointers. Everything in this package is a pure function: plans are
// returned, never applied, which is what makes the hover/preview
// affordance free.
package taskgraph

import (
	"fmt"
	"sort"

	"github.com/ubco-db/helpme-sub003/lib/schema"
)

// NoParent marks a node with no effective precondition: either the
// task is a root, or its authored precondition is already done and no
// longer gates it.
const NoParent = -1

// Node is one resolved task in the forest.
type Node struct {
	// ID is the task id from the queue configuration.
	ID string

	// DisplayName, ShortDisplayName, and ColorHex are carried from
	// the authored TaskConfig for presentation.
	DisplayName      string
	ShortDisplayName string
	ColorHex         string

	// Blocking marks a staff sign-off gate: while not Done, tasks
	// depending on this one may not be joined.
	Blocking bool

	// PreconditionID is the authored precondition, kept for display
	// even when the resolved link is cleared.
	PreconditionID string

	// Parent is the arena index of the effective precondition, or
	// NoParent. Cleared when the authored precondition is Done: a
	// completed prerequisite no longer gates its dependents.
	Parent int

	// Done is the student's recorded progress for this task.
	Done bool
}

// Forest is the resolved dependency forest for one (config, student)
// pair. Nodes are in deterministic topological order, roots first.
type Forest struct {
	Nodes []Node

	index map[string]int
}

// CyclicTaskError reports a precondition chain that revisits a task.
type CyclicTaskError struct {
	// TaskID is a task on the cycle.
	TaskID string
}

func (e *CyclicTaskError) Error() string {
	return fmt.Sprintf("task %q is part of a precondition cycle", e.TaskID)
}

// DanglingPreconditionError reports a precondition id that names no
// configured task.
type DanglingPreconditionError struct {
	TaskID       string
	Precondition string
}

func (e *DanglingPreconditionError) Error() string {
	return fmt.Sprintf("task %q names undefined precondition %q", e.TaskID, e.Precondition)
}

// Build resolves the authored task set against one student's progress.
// Tasks enter the arena only after their precondition has entered it,
// so parent indices always point backward. Deterministic: ties are
// broken by sorted task id, and two calls with equal inputs return
// forests with identical node order and links.
func Build(tasks map[string]schema.TaskConfig, progress map[string]bool) (*Forest, error) {
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		pre := tasks[id].Precondition
		if pre == "" {
			continue
		}
		if _, ok := tasks[pre]; !ok {
			return nil, &DanglingPreconditionError{TaskID: id, Precondition: pre}
		}
	}

	forest := &Forest{
		Nodes: make([]Node, 0, len(tasks)),
		index: make(map[string]int, len(tasks)),
	}

	remaining := ids
	for len(remaining) > 0 {
		var deferred []string
		for _, id := range remaining {
			config := tasks[id]
			parent := NoParent
			if config.Precondition != "" {
				parentIndex, resolved := forest.index[config.Precondition]
				if !resolved {
					deferred = append(deferred, id)
					continue
				}
				if !forest.Nodes[parentIndex].Done {
					parent = parentIndex
				}
			}
			forest.index[id] = len(forest.Nodes)
			forest.Nodes = append(forest.Nodes, Node{
				ID:               id,
				DisplayName:      config.DisplayName,
				ShortDisplayName: config.ShortDisplayName,
				ColorHex:         config.ColorHex,
				Blocking:         config.Blocking,
				PreconditionID:   config.Precondition,
				Parent:           parent,
				Done:             progress[id],
			})
		}
		if len(deferred) == len(remaining) {
			// No task resolved this pass: everything left is on a
			// cycle (dangling ids were rejected above).
			return nil, &CyclicTaskError{TaskID: deferred[0]}
		}
		remaining = deferred
	}

	return forest, nil
}

// Lookup returns the arena index for a task id.
func (f *Forest) Lookup(id string) (int, bool) {
	i, ok := f.index[id]
	return i, ok
}

// Chain returns the effective precondition chain for a task, ordered
// root first and ending with the task itself. Links cleared by done
// parents truncate the chain.
func (f *Forest) Chain(id string) ([]int, bool) {
	i, ok := f.index[id]
	if !ok {
		return nil, false
	}
	var chain []int
	for ; i != NoParent; i = f.Nodes[i].Parent {
		chain = append(chain, i)
	}
	for left, right := 0, len(chain)-1; left < right; left, right = left+1, right-1 {
		chain[left], chain[right] = chain[right], chain[left]
	}
	return chain, true
}

// Dependents returns the arena indices of nodes whose effective
// precondition is the given node, in arena order.
func (f *Forest) Dependents(i int) []int {
	var out []int
	for j := range f.Nodes {
		if f.Nodes[j].Parent == i {
			out = append(out, j)
		}
	}
	return out
}
