// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/ubco-db/helpme-sub003/lib/codec"
	"github.com/ubco-db/helpme-sub003/lib/queueindex"
	"github.com/ubco-db/helpme-sub003/lib/schema"
	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

// subscriber is one connected subscribe stream. The channel receives
// events from the broadcast hooks; the done channel is closed by the
// stream handler when the connection ends, and the fanout removes the
// subscriber when it sees that.
type subscriber struct {
	queue  string
	viewer string

	channel chan subscribeEvent
	resync  atomic.Bool
	done    <-chan struct{}
}

// subscriberChannelSize buffers the per-subscriber event channel. Big
// enough to absorb a burst of mutations; overflow drops the event and
// flags the subscriber for resync.
const subscriberChannelSize = 256

// subscribeEvent is one mutation fanned out to subscribers.
type subscribeEvent struct {
	// Kind is "put", "remove", or "config".
	Kind     string
	TicketID string
	Content  *ticket.TicketContent
	Config   *schema.QueueConfig
}

// heartbeatInterval spaces liveness frames on an idle stream. A client
// that sees no frame for twice this treats the push channel as dead
// and leans on its poll fallback.
const heartbeatInterval = 30 * time.Second

// addSubscriber registers a stream. Must be called with mu held.
func (qs *QueueService) addSubscriber(sub *subscriber) {
	qs.subscribers[sub.queue] = append(qs.subscribers[sub.queue], sub)
}

// removeSubscriber unregisters a stream. Must be called with mu held.
func (qs *QueueService) removeSubscriber(sub *subscriber) {
	subs := qs.subscribers[sub.queue]
	for i, existing := range subs {
		if existing == sub {
			qs.subscribers[sub.queue] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(qs.subscribers[sub.queue]) == 0 {
		delete(qs.subscribers, sub.queue)
	}
}

// broadcastPut fans a ticket upsert out to the queue's subscribers.
// Drafts go only to their owner's streams. Must be called with mu
// held.
func (qs *QueueService) broadcastPut(queue, ticketID string, content *ticket.TicketContent) {
	qs.broadcast(queue, subscribeEvent{Kind: "put", TicketID: ticketID, Content: content})
}

// broadcastRemove tells subscribers a ticket left the live view (it
// entered a terminal status; the journal keeps it). Must be called
// with mu held.
func (qs *QueueService) broadcastRemove(queue, ticketID string, content *ticket.TicketContent) {
	qs.broadcast(queue, subscribeEvent{Kind: "remove", TicketID: ticketID, Content: content})
}

// broadcastConfig announces a queue configuration change. Must be
// called with mu held.
func (qs *QueueService) broadcastConfig(queue string, config *schema.QueueConfig) {
	qs.broadcast(queue, subscribeEvent{Kind: "config", Config: config})
}

// broadcast dispatches one event with non-blocking sends, so fanout
// never does I/O or parks under mu. A full channel marks the
// subscriber for resync; a closed done channel removes it.
func (qs *QueueService) broadcast(queue string, event subscribeEvent) {
	subs := qs.subscribers[queue]
	if len(subs) == 0 {
		return
	}

	for i := len(subs) - 1; i >= 0; i-- {
		sub := subs[i]

		select {
		case <-sub.done:
			subs = append(subs[:i], subs[i+1:]...)
			continue
		default:
		}

		// Draft tickets are visible only to their owner.
		if event.Content != nil && event.Content.Status == ticket.StatusDrafting &&
			event.Content.Owner != sub.viewer {
			continue
		}

		select {
		case sub.channel <- event:
		default:
			sub.resync.Store(true)
		}
	}

	if len(subs) == 0 {
		delete(qs.subscribers, queue)
	} else {
		qs.subscribers[queue] = subs
	}
}

// subscribeRequest is the decoded body of the "subscribe" stream
// action.
type subscribeRequest struct {
	Queue  string `cbor:"queue"`
	Viewer string `cbor:"viewer"`
}

// subscribeFrame is one CBOR value on the subscribe stream:
//
//   - "put": ticket created or updated (TicketID, Content)
//   - "remove": ticket entered a terminal status; drop it from the
//     live view (TicketID, Content carries the final status)
//   - "config": queue configuration changed (Config)
//   - "caught_up": the snapshot is complete, live events follow
//     (Stats)
//   - "heartbeat": liveness probe
//   - "resync": the subscriber's buffer overflowed; clear local state,
//     a fresh snapshot follows
//   - "error": terminal error, the connection closes (Message)
type subscribeFrame struct {
	Type     string                `cbor:"type"`
	TicketID string                `cbor:"ticket_id,omitempty"`
	Content  *ticket.TicketContent `cbor:"content,omitempty"`
	Config   *schema.QueueConfig   `cbor:"config,omitempty"`
	Stats    *queueindex.Stats     `cbor:"stats,omitempty"`
	Message  string                `cbor:"message,omitempty"`
}

// handleSubscribe is the stream handler for "subscribe". It registers
// the subscriber and collects a snapshot atomically under the write
// lock (events arriving during the snapshot write buffer in the
// channel), writes the snapshot outside the lock, then forwards live
// events until the connection or context ends.
func (qs *QueueService) handleSubscribe(ctx context.Context, raw []byte, conn net.Conn) {
	encoder := codec.NewEncoder(conn)

	var request subscribeRequest
	if err := codec.Unmarshal(raw, &request); err != nil {
		encoder.Encode(subscribeFrame{Type: "error", Message: "invalid request: " + err.Error()})
		return
	}
	if request.Viewer == "" {
		encoder.Encode(subscribeFrame{Type: "error", Message: "missing required field: viewer"})
		return
	}

	qs.mu.Lock()
	state, err := qs.requireQueue(request.Queue)
	if err != nil {
		qs.mu.Unlock()
		encoder.Encode(subscribeFrame{Type: "error", Message: err.Error()})
		return
	}

	done := make(chan struct{})
	sub := &subscriber{
		queue:   request.Queue,
		viewer:  request.Viewer,
		channel: make(chan subscribeEvent, subscriberChannelSize),
		done:    done,
	}
	qs.addSubscriber(sub)
	entries, stats := collectSnapshot(state, request.Viewer)
	qs.mu.Unlock()

	qs.logger.Info("subscribe stream started",
		"queue", request.Queue,
		"viewer", request.Viewer,
		"tickets", len(entries),
	)

	defer func() {
		close(done)
		qs.mu.Lock()
		qs.removeSubscriber(sub)
		qs.mu.Unlock()
		qs.logger.Info("subscribe stream ended", "queue", request.Queue, "viewer", request.Viewer)
	}()

	if err := writeSnapshot(encoder, entries, stats); err != nil {
		qs.logger.Debug("subscribe snapshot write error", "queue", request.Queue, "error", err)
		return
	}

	qs.subscribeEventLoop(ctx, encoder, sub)
}

// collectSnapshot gathers the live tickets a viewer may see: every
// non-terminal ticket, except other students' drafts. Must be called
// with mu held.
func collectSnapshot(state *queueState, viewer string) ([]queueindex.Entry, queueindex.Stats) {
	var entries []queueindex.Entry
	for _, entry := range state.index.All() {
		status := entry.Content.Status
		if status.Terminal() {
			continue
		}
		if status == ticket.StatusDrafting && entry.Content.Owner != viewer {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, state.index.Stats()
}

// writeSnapshot writes put frames for every snapshot entry, then the
// caught_up marker.
func writeSnapshot(encoder *codec.Encoder, entries []queueindex.Entry, stats queueindex.Stats) error {
	for _, entry := range entries {
		err := encoder.Encode(subscribeFrame{
			Type:     "put",
			TicketID: entry.ID,
			Content:  entry.Content,
		})
		if err != nil {
			return err
		}
	}
	return encoder.Encode(subscribeFrame{Type: "caught_up", Stats: &stats})
}

// subscribeEventLoop forwards events to the connection until it ends.
// On overflow (resync flag), buffered events are stale: drain them,
// send a resync frame, and write a fresh snapshot before resuming.
func (qs *QueueService) subscribeEventLoop(ctx context.Context, encoder *codec.Encoder, sub *subscriber) {
	heartbeat := qs.clock.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event := <-sub.channel:
			if sub.resync.CompareAndSwap(true, false) {
				for len(sub.channel) > 0 {
					<-sub.channel
				}

				if err := encoder.Encode(subscribeFrame{Type: "resync"}); err != nil {
					return
				}

				qs.mu.RLock()
				state, ok := qs.queues[sub.queue]
				if !ok {
					qs.mu.RUnlock()
					encoder.Encode(subscribeFrame{Type: "error", Message: "queue no longer exists"})
					return
				}
				entries, stats := collectSnapshot(state, sub.viewer)
				qs.mu.RUnlock()

				if err := writeSnapshot(encoder, entries, stats); err != nil {
					return
				}
				continue
			}

			frame := subscribeFrame{
				Type:     event.Kind,
				TicketID: event.TicketID,
				Content:  event.Content,
				Config:   event.Config,
			}
			if err := encoder.Encode(frame); err != nil {
				qs.logger.Debug("subscribe stream write error", "queue", sub.queue, "error", err)
				return
			}

		case <-heartbeat.C:
			if err := encoder.Encode(subscribeFrame{Type: "heartbeat"}); err != nil {
				qs.logger.Debug("subscribe heartbeat error", "queue", sub.queue, "error", err)
				return
			}
		}
	}
}
