// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ubco-db/helpme-sub003/lib/clock"
	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

// Sentinel errors surfaced verbatim in the wire envelope. Clients
// match on the leading phrase.
var (
	errQueueNotFound  = errors.New("queue not found")
	errTicketNotFound = errors.New("ticket not found")

	// errDuplicateActiveTicket refuses a create while the owner
	// already holds a non-terminal ticket of the same kind.
	// Recoverable with force, which confirms deletion of the
	// existing ticket first.
	errDuplicateActiveTicket = errors.New("duplicate active ticket")

	// errTaskNotJoinable refuses a task join blocked by a
	// not-yet-signed-off blocking ancestor.
	errTaskNotJoinable = errors.New("task not joinable")
)

// QueueService is the daemon's core state. One RWMutex serializes all
// mutations: the admission check and the create it guards happen under
// the same critical section, and compare-and-set transitions observe a
// stable status.
type QueueService struct {
	store    *Store
	clock    clock.Clock
	notifier Notifier
	logger   *slog.Logger

	startedAt time.Time

	mu     sync.RWMutex
	queues map[string]*queueState

	// subscribers fans live mutations out per queue. Guarded by mu.
	subscribers map[string][]*subscriber

	// Question auto-resolve timers: a min-heap of deadlines, one
	// clock.AfterFunc armed for the earliest, and a notify channel
	// the timer loop drains. All heap access is guarded by mu;
	// signalTimerNotify never takes the lock, so it is safe from
	// AfterFunc callbacks.
	timers      timerHeap
	timerFunc   *clock.Timer
	timerNotify chan struct{}

	// nextTicket numbers new tickets. Guarded by mu; seeded past the
	// highest journaled id at load.
	nextTicket uint64
}

// queueState is everything the service tracks for one queue.
type queueState struct {
	config *schema.QueueConfig
	index  *queueindex.Index

	// progress is staff sign-off per student and task, mirrored
	// from the journal. Feeds the dependency forest's Done flags.
	progress map[string]map[string]bool
}

func newQueueState(config *schema.QueueConfig) *queueState {
	return &queueState{
		config:   config,
		index:    queueindex.New(),
		progress: make(map[string]map[string]bool),
	}
}

// progressFor returns the student's task completion map. The returned
// map is shared; callers only read it.
func (qs *queueState) progressFor(student string) map[string]bool {
	return qs.progress[student]
}

func (qs *queueState) setProgress(student, task string, done bool) {
	tasks, ok := qs.progress[student]
	if !ok {
		tasks = make(map[string]bool)
		qs.progress[student] = tasks
	}
	tasks[task] = done
}

// NewQueueService builds the service around an opened store, loading
// every journaled queue into memory.
func NewQueueService(store *Store, clk clock.Clock, notifier Notifier, logger *slog.Logger) (*QueueService, error) {
	qs := &QueueService{
		store:       store,
		clock:       clk,
		notifier:    notifier,
		logger:      logger,
		startedAt:   clk.Now(),
		queues:      make(map[string]*queueState),
		subscribers: make(map[string][]*subscriber),
		timerNotify: make(chan struct{}, 1),
	}
	if err := qs.load(); err != nil {
		return nil, err
	}
	return qs, nil
}

// load rebuilds in-memory state from the journal: configs, tickets,
// progress, the ticket id counter, and pending question timers for
// tickets that were mid-help at shutdown.
func (qs *QueueService) load() error {
	loaded, err := qs.store.Load()
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}

	for queue, data := range loaded {
		state := newQueueState(data.Config)
		for id, content := range data.Tickets {
			state.index.Put(id, content)
			qs.bumpTicketCounter(id)
		}
		for student, tasks := range data.Progress {
			for task, done := range tasks {
				state.setProgress(student, task, done)
			}
		}
		qs.queues[queue] = state
	}

	qs.rebuildTimerHeap()

	qs.logger.Info("journal loaded", "queues", len(qs.queues))
	return nil
}

// bumpTicketCounter advances the id counter past a journaled id.
func (qs *QueueService) bumpTicketCounter(id string) {
	suffix, ok := strings.CutPrefix(id, "tk-")
	if !ok {
		return
	}
	n, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return
	}
	if n >= qs.nextTicket {
		qs.nextTicket = n + 1
	}
}

// newTicketID allocates the next ticket id. Must be called with mu
// held.
func (qs *QueueService) newTicketID() string {
	id := fmt.Sprintf("tk-%d", qs.nextTicket)
	qs.nextTicket++
	return id
}

// now returns the current time formatted the way every ticket
// timestamp is stored.
func (qs *QueueService) now() string {
	return qs.clock.Now().UTC().Format(time.RFC3339)
}

// requireQueue resolves a queue name. Must be called with mu held.
func (qs *QueueService) requireQueue(queue string) (*queueState, error) {
	if queue == "" {
		return nil, fmt.Errorf("missing required field: queue")
	}
	state, ok := qs.queues[queue]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errQueueNotFound, queue)
	}
	return state, nil
}

// requireTicket resolves a ticket in a queue. Must be called with mu
// held.
func (qs *QueueService) requireTicket(state *queueState, id string) (*ticket.TicketContent, error) {
	if id == "" {
		return nil, fmt.Errorf("missing required field: ticket")
	}
	content, ok := state.index.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errTicketNotFound, id)
	}
	return content, nil
}

// actorRole validates the actor/role pair every request carries.
func actorRole(actor string, role ticket.Role) error {
	if actor == "" {
		return fmt.Errorf("missing required field: actor")
	}
	if !role.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}
	return nil
}
