// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used on every wire surface
// of the queue service: socket requests and responses, subscribe stream
// frames, and the persisted ticket and config bodies in SQLite.
// Encoding is deterministic, so equal values produce equal bytes and
// snapshot digests can be compared across processes.
package codec
