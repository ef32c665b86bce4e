// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package service implements the Unix socket CBOR protocol shared by
// the queue service and its clients.
//
// The protocol has two connection shapes. Request-response actions
// handle exactly one request per connection: the client writes one
// CBOR value, the server writes one Response envelope, the connection
// closes. Stream actions (registered with HandleStream) hand the
// connection to the handler after routing, which writes CBOR frames
// until the client disconnects; the subscribe feed uses this.
//
// Authentication is out of scope for the protocol: requests carry an
// actor and role that the server takes at face value.
package service
