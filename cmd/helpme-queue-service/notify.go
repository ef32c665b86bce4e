// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	"github.com/ubco-db/helpme-sub003/lib/schema/ticket"
)

// Notifier is the owner-facing alert side-channel. The service calls
// it whenever a ticket enters cant_find or requeueing, the two states
// that need the student to act. Delivery (push notification, email,
// campus chat) is someone else's problem; the service only guarantees
// the call happens on every qualifying transition.
type Notifier interface {
	NotifyOwner(queue, ticketID string, content *ticket.TicketContent)
}

// logNotifier is the default Notifier: it records the alert in the
// service log. Deployments wire a real delivery channel here.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier that logs each alert.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) NotifyOwner(queue, ticketID string, content *ticket.TicketContent) {
	n.logger.Info("owner notification",
		"queue", queue,
		"ticket", ticketID,
		"owner", content.Owner,
		"status", content.Status,
	)
}
