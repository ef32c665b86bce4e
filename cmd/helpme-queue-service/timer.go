// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"container/heap"
	"context"
	"time"

	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

// timerHeapEntry is one pending question-timer deadline. helpedAt is
// the generation guard: a timer armed for one helping entry must never
// fire against a later one, so the entry records the HelpedAt it was
// armed for and the loop lazily discards entries whose ticket has
// moved on.
type timerHeapEntry struct {
	target   time.Time
	queue    string
	ticketID string
	helpedAt string
}

// timerHeap is a min-heap of question timers ordered by deadline.
type timerHeap []timerHeapEntry

func (h timerHeap) Len() int           { return len(h) }
func (h timerHeap) Less(i, j int) bool { return h[i].target.Before(h[j].target) }
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)        { *h = append(*h, x.(timerHeapEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	entry := old[len(old)-1]
	*h = old[:len(old)-1]
	return entry
}

// armQuestionTimer schedules automatic resolution for a ticket that
// just entered helping, if the queue configures a question timer.
// Must be called with mu held.
func (qs *QueueService) armQuestionTimer(queue string, state *queueState, ticketID string, content *ticket.TicketContent) {
	minutes := state.config.QuestionTimer
	if minutes <= 0 {
		return
	}
	helpedAt, err := time.Parse(time.RFC3339, content.HelpedAt)
	if err != nil {
		return
	}
	heap.Push(&qs.timers, timerHeapEntry{
		target:   helpedAt.Add(time.Duration(minutes) * time.Minute),
		queue:    queue,
		ticketID: ticketID,
		helpedAt: content.HelpedAt,
	})
	qs.scheduleNextTimerLocked()
}

// rebuildTimerHeap repopulates the heap from every helping ticket in
// every queue with a question timer. Called once at load so tickets
// mid-help at shutdown still auto-resolve. Must be called with mu held
// or before concurrent access begins.
func (qs *QueueService) rebuildTimerHeap() {
	qs.timers = qs.timers[:0]
	for queue, state := range qs.queues {
		minutes := state.config.QuestionTimer
		if minutes <= 0 {
			continue
		}
		for _, entry := range state.index.ByStatus(ticket.StatusHelping) {
			helpedAt, err := time.Parse(time.RFC3339, entry.Content.HelpedAt)
			if err != nil {
				continue
			}
			qs.timers = append(qs.timers, timerHeapEntry{
				target:   helpedAt.Add(time.Duration(minutes) * time.Minute),
				queue:    queue,
				ticketID: entry.ID,
				helpedAt: entry.Content.HelpedAt,
			})
		}
	}
	heap.Init(&qs.timers)
}

// scheduleNextTimerLocked re-arms the single AfterFunc for the heap
// minimum. An already-expired minimum signals the loop directly:
// AfterFunc(d<=0) on the fake clock runs the callback synchronously,
// which would deadlock under mu. Must be called with mu held.
func (qs *QueueService) scheduleNextTimerLocked() {
	if qs.timerNotify == nil {
		return
	}

	if qs.timerFunc != nil {
		qs.timerFunc.Stop()
		qs.timerFunc = nil
	}
	if qs.timers.Len() == 0 {
		return
	}

	delay := qs.timers[0].target.Sub(qs.clock.Now())
	if delay <= 0 {
		qs.signalTimerNotify()
		return
	}
	qs.timerFunc = qs.clock.AfterFunc(delay, qs.signalTimerNotify)
}

// signalTimerNotify wakes the timer loop without taking mu, so it is
// safe from AfterFunc callbacks.
func (qs *QueueService) signalTimerNotify() {
	if qs.timerNotify == nil {
		return
	}
	select {
	case qs.timerNotify <- struct{}{}:
	default:
	}
}

// startTimerLoop drives auto-resolution. Event-driven: one AfterFunc
// wakes it exactly at the next deadline instead of a polling scan.
// Blocks until ctx is cancelled.
func (qs *QueueService) startTimerLoop(ctx context.Context) {
	qs.mu.Lock()
	qs.scheduleNextTimerLocked()
	qs.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			qs.mu.Lock()
			if qs.timerFunc != nil {
				qs.timerFunc.Stop()
				qs.timerFunc = nil
			}
			qs.mu.Unlock()
			return
		case <-qs.timerNotify:
			qs.mu.Lock()
			qs.fireExpiredTimersLocked(ctx)
			qs.scheduleNextTimerLocked()
			qs.mu.Unlock()
		}
	}
}

// fireExpiredTimersLocked pops every expired entry and auto-resolves
// the tickets that are still in the helping entry the timer was armed
// for. Lazy deletion: an explicit transition since arming changed
// Status or HelpedAt, and the stale entry is dropped without effect.
// Must be called with mu held.
func (qs *QueueService) fireExpiredTimersLocked(ctx context.Context) {
	now := qs.clock.Now()

	for qs.timers.Len() > 0 {
		earliest := qs.timers[0]
		if earliest.target.After(now) {
			break
		}
		heap.Pop(&qs.timers)

		state, ok := qs.queues[earliest.queue]
		if !ok {
			continue
		}
		content, ok := state.index.Get(earliest.ticketID)
		if !ok {
			continue
		}
		if content.Status != ticket.StatusHelping || content.HelpedAt != earliest.helpedAt {
			continue
		}

		content.Status = ticket.StatusResolved
		content.ClosedAt = qs.now()
		content.UpdatedAt = content.ClosedAt

		if err := qs.store.SaveTicket(ctx, earliest.queue, earliest.ticketID, content); err != nil {
			qs.logger.Error("auto-resolve journal write failed",
				"queue", earliest.queue,
				"ticket", earliest.ticketID,
				"error", err,
			)
			continue
		}
		state.index.Put(earliest.ticketID, content)
		qs.broadcastRemove(earliest.queue, earliest.ticketID, content)

		qs.logger.Info("question timer auto-resolved ticket",
			"queue", earliest.queue,
			"ticket", earliest.ticketID,
			"helper", content.Helper,
		)
	}
}
