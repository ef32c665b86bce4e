// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code takes
// a Clock and injects Real(); tests inject Fake(epoch) and drive time
// with Advance, making timer behavior (question-timer auto-resolution,
// heartbeats, poll intervals) fully deterministic.
package clock
