// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package queueview turns the live ticket set into presentation
// structures: the waiting / being-helped / owned-by-caller partition,
// tag and task group buckets, sorted ticket boards, and the structural
// digest used by the poll fallback to skip redundant updates.
//
// Everything here is a pure function over entries the index already
// cloned; recomputation is always safe.
package queueview

import (
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/ubco-db/helpme-sub003/lib/codec"
	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
	"github.com/ubco-db/helpme-sub003/lib/taskgraph"
)

// Snapshot is the live view of one queue for one viewer. Waiting and
// BeingHelped preserve FIFO arrival order; OwnedByCaller holds the
// viewer's own non-terminal tickets, drafts included.
type Snapshot struct {
	Waiting       []queueindex.Entry `json:"waiting"`
	BeingHelped   []queueindex.Entry `json:"being_helped"`
	OwnedByCaller []queueindex.Entry `json:"owned_by_caller"`
}

// Partition computes the snapshot from FIFO-ordered entries. Drafts
// are visible only inside the owner's OwnedByCaller section; terminal
// tickets appear nowhere.
func Partition(entries []queueindex.Entry, viewer string) Snapshot {
	var snap Snapshot
	for _, entry := range entries {
		status := entry.Content.Status
		if entry.Content.Owner == viewer && !status.Terminal() {
			snap.OwnedByCaller = append(snap.OwnedByCaller, entry)
		}
		switch status {
		case ticket.StatusQueued:
			snap.Waiting = append(snap.Waiting, entry)
		case ticket.StatusHelping:
			snap.BeingHelped = append(snap.BeingHelped, entry)
		}
	}
	return snap
}

// Digest returns the blake3 hash of the snapshot's canonical CBOR
// encoding. Two structurally equal snapshots always digest
// identically, so a polling client compares digests instead of walking
// the structures.
func Digest(snap Snapshot) (string, error) {
	data, err := codec.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	sum := blake3.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}

// Bucket is one tag or task group in the grouped presentation.
type Bucket struct {
	// ID is the tag or task id.
	ID string `json:"id"`

	DisplayName string `json:"display_name"`
	ColorHex    string `json:"color_hex"`

	// Students is the number of distinct ticket owners in the
	// bucket. Derived, never stored.
	Students int `json:"students"`

	// Joinable reports whether the viewer may directly toggle
	// membership in this bucket.
	Joinable bool `json:"joinable"`

	// Tickets are the bucket's member tickets, FIFO order.
	Tickets []queueindex.Entry `json:"tickets,omitempty"`
}

// GroupByTag buckets question tickets by tag, in sorted tag id order.
// Tags with no members still appear: an empty bucket is how a student
// discovers a tag exists. All tags are joinable; tag membership has no
// dependency structure.
func GroupByTag(entries []queueindex.Entry, config *schema.QueueConfig) []Bucket {
	members := make(map[string][]queueindex.Entry)
	for _, entry := range entries {
		if entry.Content.Status.Terminal() || entry.Content.Status == ticket.StatusDrafting {
			continue
		}
		for _, tag := range entry.Content.Tags {
			members[tag] = append(members[tag], entry)
		}
	}

	buckets := make([]Bucket, 0, len(config.Tags))
	for _, id := range sortedTagIDs(config) {
		tag := config.Tags[id]
		tickets := members[id]
		buckets = append(buckets, Bucket{
			ID:          id,
			DisplayName: tag.DisplayName,
			ColorHex:    tag.ColorHex,
			Students:    distinctOwners(tickets),
			Joinable:    true,
			Tickets:     tickets,
		})
	}
	return buckets
}

// GroupByTask buckets demo tickets by task, in forest order (roots
// first), with per-bucket joinability computed against the viewer's
// current task membership.
func GroupByTask(entries []queueindex.Entry, forest *taskgraph.Forest, viewerTasks taskgraph.Set) []Bucket {
	members := make(map[string][]queueindex.Entry)
	for _, entry := range entries {
		if entry.Content.Status.Terminal() || entry.Content.Status == ticket.StatusDrafting {
			continue
		}
		for _, task := range entry.Content.TaskIDs {
			members[task] = append(members[task], entry)
		}
	}

	buckets := make([]Bucket, 0, len(forest.Nodes))
	for _, node := range forest.Nodes {
		tickets := members[node.ID]
		name := node.ShortDisplayName
		if name == "" {
			name = node.DisplayName
		}
		buckets = append(buckets, Bucket{
			ID:          node.ID,
			DisplayName: name,
			ColorHex:    node.ColorHex,
			Students:    distinctOwners(tickets),
			Joinable:    taskgraph.Joinable(forest, node.ID, viewerTasks),
			Tickets:     tickets,
		})
	}
	return buckets
}

// Sort modes for the non-live ticket board.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortMostVotes  = "most_votes"
	SortLeastVotes = "least_votes"
)

// SortBoard orders entries for the ticket board. The input is in FIFO
// arrival order, which doubles as creation order, so newest/oldest are
// reversals and vote sorts fall back to arrival for ties. The slice is
// sorted in place and returned. Unknown modes leave the order
// untouched.
func SortBoard(entries []queueindex.Entry, mode string) []queueindex.Entry {
	switch mode {
	case SortOldest, "":
		// Already FIFO.
	case SortNewest:
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	case SortMostVotes:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Content.Votes > entries[j].Content.Votes
		})
	case SortLeastVotes:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Content.Votes < entries[j].Content.Votes
		})
	}
	return entries
}

func distinctOwners(entries []queueindex.Entry) int {
	owners := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		owners[entry.Content.Owner] = struct{}{}
	}
	return len(owners)
}

func sortedTagIDs(config *schema.QueueConfig) []string {
	ids := make([]string, 0, len(config.Tags))
	for id := range config.Tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
