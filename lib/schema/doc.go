// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the authored queue configuration model: tag
// and task definitions, queue-level settings, and the JSONC parser and
// field validation applied before a configuration is accepted.
//
// Structural validation of the task dependency forest (cycles, dangling
// preconditions) lives in lib/taskgraph; the service runs both before
// persisting a configuration.
package schema
