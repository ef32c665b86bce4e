// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// helpme-queue-service is the live help-queue daemon. It owns all
// queue and ticket state: the ticket lifecycle state machine, the
// at-most-one-active-ticket admission rule, the task dependency
// forest with its join/leave cascades, and the subscribe feed that
// keeps every watching client convergent.
//
// State lives in an in-memory index per queue, journaled to SQLite so
// a restart rebuilds the same picture. Clients talk CBOR over a Unix
// socket: one request per connection, except the subscribe action,
// which upgrades the connection to a frame stream.
package main
