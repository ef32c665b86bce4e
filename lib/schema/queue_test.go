// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strings"
	"testing"
)

func TestParseQueueConfigJSONC(t *testing.T) {
	data := []byte(`{
		// Office hours queue for lab 3.
		"tags": {
			"setup": {"display_name": "Setup", "color_hex": "#ff8800"},
			"debug": {"display_name": "Debugging", "color_hex": "#00cc44"},
		},
		"tasks": {
			"t1": {"display_name": "Task 1", "short_display_name": "T1", "color_hex": "#336699", "blocking": false},
			"t2": {"display_name": "Task 2", "color_hex": "#663399", "blocking": true, "precondition": "t1"},
		},
		"assignment_id": "lab3",
		"minimum_tags": 1,
		"question_timer": 5, /* minutes */
	}`)

	config, err := ParseQueueConfig(data)
	if err != nil {
		t.Fatalf("ParseQueueConfig: %v", err)
	}
	if len(config.Tags) != 2 || len(config.Tasks) != 2 {
		t.Fatalf("got %d tags, %d tasks; want 2, 2", len(config.Tags), len(config.Tasks))
	}
	if !config.Tasks["t2"].Blocking {
		t.Error("t2 should be blocking")
	}
	if got := config.Tasks["t2"].Precondition; got != "t1" {
		t.Errorf("t2 precondition = %q, want t1", got)
	}
	if config.QuestionTimer != 5 {
		t.Errorf("question_timer = %d, want 5", config.QuestionTimer)
	}
}

func TestValidateRejections(t *testing.T) {
	base := func() *QueueConfig {
		return &QueueConfig{
			Tags: map[string]TagDefinition{
				"setup": {DisplayName: "Setup", ColorHex: "#ff8800"},
			},
			Tasks: map[string]TaskConfig{
				"t1": {DisplayName: "Task 1", ColorHex: "#336699"},
			},
			AssignmentID: "lab3",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*QueueConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*QueueConfig) {},
		},
		{
			name: "missing tag display name",
			mutate: func(c *QueueConfig) {
				c.Tags["bare"] = TagDefinition{ColorHex: "#ffffff"}
			},
			wantErr: "display_name",
		},
		{
			name: "bad color",
			mutate: func(c *QueueConfig) {
				c.Tags["setup"] = TagDefinition{DisplayName: "Setup", ColorHex: "orange"}
			},
			wantErr: "color_hex",
		},
		{
			name: "short color",
			mutate: func(c *QueueConfig) {
				c.Tasks["t1"] = TaskConfig{DisplayName: "Task 1", ColorHex: "#fff"}
			},
			wantErr: "color_hex",
		},
		{
			name: "undefined precondition",
			mutate: func(c *QueueConfig) {
				c.Tasks["t2"] = TaskConfig{DisplayName: "Task 2", ColorHex: "#000000", Precondition: "ghost"}
			},
			wantErr: "not defined",
		},
		{
			name: "self precondition",
			mutate: func(c *QueueConfig) {
				c.Tasks["t1"] = TaskConfig{DisplayName: "Task 1", ColorHex: "#336699", Precondition: "t1"}
			},
			wantErr: "names itself",
		},
		{
			name: "tasks without assignment",
			mutate: func(c *QueueConfig) {
				c.AssignmentID = ""
			},
			wantErr: "assignment_id",
		},
		{
			name: "negative minimum tags",
			mutate: func(c *QueueConfig) {
				c.MinimumTags = -1
			},
			wantErr: "minimum_tags",
		},
		{
			name: "minimum tags above tag count",
			mutate: func(c *QueueConfig) {
				c.MinimumTags = 5
			},
			wantErr: "exceeds",
		},
		{
			name: "negative question timer",
			mutate: func(c *QueueConfig) {
				c.QuestionTimer = -5
			},
			wantErr: "question_timer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: unexpected error %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate: expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestTaskShortName(t *testing.T) {
	config := &QueueConfig{
		Tasks: map[string]TaskConfig{
			"t1": {DisplayName: "Task 1", ShortDisplayName: "T1", ColorHex: "#336699"},
			"t2": {DisplayName: "Task 2", ColorHex: "#663399"},
		},
	}
	if got := config.TaskShortName("t1"); got != "T1" {
		t.Errorf("TaskShortName(t1) = %q, want T1", got)
	}
	if got := config.TaskShortName("t2"); got != "Task 2" {
		t.Errorf("TaskShortName(t2) = %q, want Task 2", got)
	}
	if got := config.TaskShortName("missing"); got != "missing" {
		t.Errorf("TaskShortName(missing) = %q, want missing", got)
	}
}
