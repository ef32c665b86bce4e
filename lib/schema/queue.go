// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/tidwall/jsonc"
)

// TagDefinition is one selectable tag on a question ticket. Tags are
// flat: no dependencies, no ordering beyond display.
type TagDefinition struct {
	// DisplayName is the human-readable label ("Lab 2", "Debugging").
	DisplayName string `json:"display_name"`

	// ColorHex is the display color, "#rrggbb".
	ColorHex string `json:"color_hex"`
}

// TaskConfig is one task in a demo assignment, as authored. Tasks form
// a forest: each task names at most one precondition task, and the
// chain of preconditions must never revisit a task.
type TaskConfig struct {
	// DisplayName is the full label ("Task 1: wire the sensor").
	DisplayName string `json:"display_name"`

	// ShortDisplayName is the compact label used in group headers
	// and ticket chips ("T1"). Optional; falls back to DisplayName.
	ShortDisplayName string `json:"short_display_name,omitempty"`

	// ColorHex is the display color, "#rrggbb".
	ColorHex string `json:"color_hex"`

	// Blocking marks a task that requires staff sign-off: until a
	// student's progress records it done, tasks depending on it may
	// not be joined. The blocking task itself remains joinable.
	Blocking bool `json:"blocking"`

	// Precondition is the id of the task that must be present on the
	// ticket before this one may be joined. Empty means a root task.
	Precondition string `json:"precondition,omitempty"`
}

// QueueConfig is the full authored configuration for one queue.
// Authored as JSONC (comments and trailing commas allowed), stored
// canonically after validation.
type QueueConfig struct {
	// Tags maps tag id to definition. Question tickets select from
	// these.
	Tags map[string]TagDefinition `json:"tags,omitempty"`

	// Tasks maps task id to definition. Demo tickets select from
	// these, subject to the precondition forest.
	Tasks map[string]TaskConfig `json:"tasks,omitempty"`

	// AssignmentID identifies the assignment whose per-student
	// progress gates blocking tasks. Required when Tasks is
	// non-empty.
	AssignmentID string `json:"assignment_id,omitempty"`

	// MinimumTags is the smallest number of tags a question ticket
	// must carry to enter the queue. Zero disables the check.
	MinimumTags int `json:"minimum_tags,omitempty"`

	// QuestionTimer is the number of minutes a ticket may sit in
	// helping before it is automatically resolved. Zero disables
	// the timer.
	QuestionTimer int `json:"question_timer,omitempty"`
}

var colorHexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseQueueConfig strips JSONC comments and trailing commas from
// data, unmarshals the result, and validates it. The returned config
// is safe to feed to taskgraph.Build.
func ParseQueueConfig(data []byte) (*QueueConfig, error) {
	stripped := jsonc.ToJSON(data)

	var config QueueConfig
	if err := json.Unmarshal(stripped, &config); err != nil {
		return nil, fmt.Errorf("parsing queue config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field-level constraints: names present, colors
// well-formed, precondition ids resolvable, numeric settings
// non-negative. It does not walk precondition chains; cycle detection
// is taskgraph.Build's job.
func (c *QueueConfig) Validate() error {
	for _, id := range sortedKeys(c.Tags) {
		tag := c.Tags[id]
		if id == "" {
			return fmt.Errorf("tag with empty id")
		}
		if tag.DisplayName == "" {
			return fmt.Errorf("tag %q: display_name is required", id)
		}
		if !colorHexPattern.MatchString(tag.ColorHex) {
			return fmt.Errorf("tag %q: color_hex %q is not #rrggbb", id, tag.ColorHex)
		}
	}

	for _, id := range sortedKeys(c.Tasks) {
		task := c.Tasks[id]
		if id == "" {
			return fmt.Errorf("task with empty id")
		}
		if task.DisplayName == "" {
			return fmt.Errorf("task %q: display_name is required", id)
		}
		if !colorHexPattern.MatchString(task.ColorHex) {
			return fmt.Errorf("task %q: color_hex %q is not #rrggbb", id, task.ColorHex)
		}
		if task.Precondition == id {
			return fmt.Errorf("task %q: precondition names itself", id)
		}
		if task.Precondition != "" {
			if _, ok := c.Tasks[task.Precondition]; !ok {
				return fmt.Errorf("task %q: precondition %q is not defined", id, task.Precondition)
			}
		}
	}

	if len(c.Tasks) > 0 && c.AssignmentID == "" {
		return fmt.Errorf("assignment_id is required when tasks are defined")
	}
	if c.MinimumTags < 0 {
		return fmt.Errorf("minimum_tags must be >= 0, got %d", c.MinimumTags)
	}
	if c.MinimumTags > len(c.Tags) {
		return fmt.Errorf("minimum_tags %d exceeds the %d defined tags", c.MinimumTags, len(c.Tags))
	}
	if c.QuestionTimer < 0 {
		return fmt.Errorf("question_timer must be >= 0 minutes, got %d", c.QuestionTimer)
	}
	return nil
}

// TaskShortName returns the compact label for a task id, falling back
// to the full display name, then the id itself.
func (c *QueueConfig) TaskShortName(id string) string {
	task, ok := c.Tasks[id]
	if !ok {
		return id
	}
	if task.ShortDisplayName != "" {
		return task.ShortDisplayName
	}
	if task.DisplayName != "" {
		return task.DisplayName
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
