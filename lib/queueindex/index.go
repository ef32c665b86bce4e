// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package queueindex maintains the in-memory ticket set for one queue:
// a primary map keyed by ticket id with secondary indexes over status,
// owner, tag, and task membership, plus FIFO arrival order for the
// live queue display.
//
// The index is not safe for concurrent use; the queue service
// serializes access under its own lock. Contents are cloned on Put and
// on read, so callers never share slices with the index.
package queueindex

import (
	"sort"

	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

// Entry pairs a ticket id with its content.
type Entry struct {
	ID      string                `json:"id"`
	Content *ticket.TicketContent `json:"content"`
}

type indexed struct {
	content *ticket.TicketContent

	// arrival orders the FIFO display. Assigned on first Put and
	// reassigned on Requeue, so a rejoining ticket goes to the back
	// of the line.
	arrival uint64
}

// Index is the ticket set for a single queue.
type Index struct {
	entries map[string]*indexed

	byStatus map[ticket.Status]map[string]struct{}
	byOwner  map[string]map[string]struct{}
	byTag    map[string]map[string]struct{}
	byTask   map[string]map[string]struct{}

	nextArrival uint64
}

// New returns an empty index.
func New() *Index {
	return &Index{
		entries:  make(map[string]*indexed),
		byStatus: make(map[ticket.Status]map[string]struct{}),
		byOwner:  make(map[string]map[string]struct{}),
		byTag:    make(map[string]map[string]struct{}),
		byTask:   make(map[string]map[string]struct{}),
	}
}

// Put inserts or replaces a ticket, reindexing its memberships. The
// content is cloned; later mutation of the argument does not reach the
// index. Arrival order is preserved across updates.
func (x *Index) Put(id string, content *ticket.TicketContent) {
	existing, ok := x.entries[id]
	if ok {
		x.unindex(id, existing.content)
		existing.content = content.Clone()
	} else {
		existing = &indexed{
			content: content.Clone(),
			arrival: x.nextArrival,
		}
		x.nextArrival++
		x.entries[id] = existing
	}
	x.reindex(id, existing.content)
}

// Requeue moves a ticket to the back of the FIFO. Called when a
// cant_find or requeueing ticket rejoins the queue.
func (x *Index) Requeue(id string) {
	entry, ok := x.entries[id]
	if !ok {
		return
	}
	entry.arrival = x.nextArrival
	x.nextArrival++
}

// Remove deletes a ticket from the index entirely. Normal lifecycle
// never calls this (terminal tickets stay indexed); it exists for
// queue teardown.
func (x *Index) Remove(id string) {
	entry, ok := x.entries[id]
	if !ok {
		return
	}
	x.unindex(id, entry.content)
	delete(x.entries, id)
}

// Get returns a clone of the ticket's content.
func (x *Index) Get(id string) (*ticket.TicketContent, bool) {
	entry, ok := x.entries[id]
	if !ok {
		return nil, false
	}
	return entry.content.Clone(), true
}

// Active returns the id of the owner's non-terminal ticket of the
// given kind, if one exists. This is the admission lookup: at most one
// such ticket may exist, and Put maintains that only if the service
// checks Active before creating.
func (x *Index) Active(owner string, kind ticket.Kind) (string, bool) {
	for id := range x.byOwner[owner] {
		content := x.entries[id].content
		if content.Kind == kind && !content.Status.Terminal() {
			return id, true
		}
	}
	return "", false
}

// All returns every ticket in FIFO arrival order.
func (x *Index) All() []Entry {
	ids := make([]string, 0, len(x.entries))
	for id := range x.entries {
		ids = append(ids, id)
	}
	return x.collect(ids)
}

// ByStatus returns tickets with the given status, FIFO order.
func (x *Index) ByStatus(status ticket.Status) []Entry {
	return x.collect(keys(x.byStatus[status]))
}

// ByOwner returns the owner's tickets, FIFO order.
func (x *Index) ByOwner(owner string) []Entry {
	return x.collect(keys(x.byOwner[owner]))
}

// ByTag returns tickets carrying the tag, FIFO order.
func (x *Index) ByTag(tag string) []Entry {
	return x.collect(keys(x.byTag[tag]))
}

// ByTask returns tickets carrying the task, FIFO order.
func (x *Index) ByTask(task string) []Entry {
	return x.collect(keys(x.byTask[task]))
}

// Len returns the number of indexed tickets, terminal included.
func (x *Index) Len() int {
	return len(x.entries)
}

// Stats summarizes the index for diagnostics.
type Stats struct {
	Tickets  int                   `json:"tickets"`
	Active   int                   `json:"active"`
	ByStatus map[ticket.Status]int `json:"by_status"`
}

// Stats returns counts over the current ticket set.
func (x *Index) Stats() Stats {
	s := Stats{
		Tickets:  len(x.entries),
		ByStatus: make(map[ticket.Status]int),
	}
	for _, entry := range x.entries {
		s.ByStatus[entry.content.Status]++
		if !entry.content.Status.Terminal() {
			s.Active++
		}
	}
	return s
}

func (x *Index) collect(ids []string) []Entry {
	sort.Slice(ids, func(i, j int) bool {
		return x.entries[ids[i]].arrival < x.entries[ids[j]].arrival
	})
	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = Entry{ID: id, Content: x.entries[id].content.Clone()}
	}
	return out
}

func (x *Index) reindex(id string, content *ticket.TicketContent) {
	add(x.byStatus, content.Status, id)
	add(x.byOwner, content.Owner, id)
	for _, tag := range content.Tags {
		add(x.byTag, tag, id)
	}
	for _, task := range content.TaskIDs {
		add(x.byTask, task, id)
	}
}

func (x *Index) unindex(id string, content *ticket.TicketContent) {
	remove(x.byStatus, content.Status, id)
	remove(x.byOwner, content.Owner, id)
	for _, tag := range content.Tags {
		remove(x.byTag, tag, id)
	}
	for _, task := range content.TaskIDs {
		remove(x.byTask, task, id)
	}
}

func add[K comparable](m map[K]map[string]struct{}, key K, id string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[id] = struct{}{}
}

func remove[K comparable](m map[K]map[string]struct{}, key K, id string) {
	set, ok := m[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(m, key)
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
