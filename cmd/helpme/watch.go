// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ubco-db/helpme-sub003/cmd/helpme/cli"
)

// pollInterval is the fallback refresh period. The push stream makes
// updates near-instant when it is healthy; the poll catches anything
// the stream missed and carries the view alone when the stream is
// down.
const pollInterval = 10 * time.Second

// resubscribeDelay spaces reconnection attempts after the push stream
// drops.
const resubscribeDelay = 2 * time.Second

func watchCommand() *cli.Command {
	var conn connection

	return &cli.Command{
		Name:    "watch",
		Summary: "Follow a queue live",
		Description: `Render the viewer's live queue view and keep it current. Updates
arrive over a push stream from the service; a poll every 10 seconds
backstops it. Every refresh compares the snapshot digest and skips
the redraw when nothing changed, so the two update paths never fight.`,
		Usage: "helpme watch --queue QUEUE --as USER [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
			conn.addFlags(fs)
			return fs
		},
		Run: func(args []string) error {
			if err := conn.requireQueue(); err != nil {
				return err
			}
			if err := conn.requireUser(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			watcher := &queueWatcher{conn: &conn}
			return watcher.run(ctx)
		},
	}
}

type queueWatcher struct {
	conn *connection

	// lastDigest is the digest of the last rendered snapshot. A
	// refresh whose digest matches is dropped without redrawing.
	lastDigest string
}

func (w *queueWatcher) run(ctx context.Context) error {
	// nudge coalesces push events: the stream goroutine signals, the
	// main loop refreshes. Capacity one; a pending nudge already
	// covers any number of further events.
	nudge := make(chan struct{}, 1)
	go w.followStream(ctx, nudge)

	if err := w.refresh(ctx); err != nil {
		return err
	}

	poll := time.NewTicker(pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-nudge:
			if err := w.refresh(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "refresh: %v\n", err)
			}
		case <-poll.C:
			if err := w.refresh(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "refresh: %v\n", err)
			}
		}
	}
}

// refresh fetches a snapshot and redraws unless the digest shows the
// view is unchanged.
func (w *queueWatcher) refresh(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var result snapshotResult
	err := w.conn.client().Call(callCtx, "snapshot", map[string]any{
		"queue": w.conn.Queue, "viewer": w.conn.User,
	}, &result)
	if err != nil {
		return err
	}
	if result.Digest == w.lastDigest {
		return nil
	}
	w.lastDigest = result.Digest

	fmt.Printf("\n=== %s %s ===\n", w.conn.Queue, time.Now().Format("15:04:05"))
	return renderSnapshot(result, fetchConfig(callCtx, w.conn))
}

// followStream keeps a subscribe stream open, nudging the main loop on
// every substantive frame. Stream failures are absorbed: the poll
// keeps the view alive while this loop reconnects.
func (w *queueWatcher) followStream(ctx context.Context, nudge chan<- struct{}) {
	for ctx.Err() == nil {
		stream, err := w.conn.client().Subscribe(ctx, "subscribe", map[string]any{
			"queue": w.conn.Queue, "viewer": w.conn.User,
		})
		if err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(resubscribeDelay):
			}
			continue
		}

		// Tear the stream down when the watch ends, which also
		// unblocks a pending Decode.
		go func() {
			<-ctx.Done()
			stream.Close()
		}()

		for {
			var frame subscribeFrame
			if err := stream.Decode(&frame); err != nil {
				stream.Close()
				break
			}
			switch frame.Type {
			case "put", "remove", "config", "resync", "caught_up":
				select {
				case nudge <- struct{}{}:
				default:
				}
			case "error":
				fmt.Fprintf(os.Stderr, "stream: %s\n", frame.Message)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(resubscribeDelay):
		}
	}
}
