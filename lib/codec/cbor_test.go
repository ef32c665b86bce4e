// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	type payload struct {
		Name  string   `cbor:"name"`
		Count int      `cbor:"count"`
		Tags  []string `cbor:"tags,omitempty"`
	}

	in := payload{Name: "lab2", Count: 3, Tags: []string{"setup", "debug"}}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out payload
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Name != in.Name || out.Count != in.Count || len(out.Tags) != 2 {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestDeterministicMapEncoding(t *testing.T) {
	// Map iteration order is random in Go; deterministic encoding must
	// erase it.
	m := map[string]int{"zebra": 1, "apple": 2, "mango": 3, "kiwi": 4}

	first, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Marshal(m)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding not deterministic: %x vs %x", first, again)
		}
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	wide := map[string]any{"name": "q1", "future_field": true}
	data, err := Marshal(wide)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var narrow struct {
		Name string `cbor:"name"`
	}
	if err := Unmarshal(data, &narrow); err != nil {
		t.Fatalf("Unmarshal with unknown field: %v", err)
	}
	if narrow.Name != "q1" {
		t.Fatalf("Name = %q, want q1", narrow.Name)
	}
}

func TestDefaultMapType(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out any
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	top, ok := out.(map[string]any)
	if !ok {
		t.Fatalf("decoded type %T, want map[string]any", out)
	}
	if _, ok := top["outer"].(map[string]any); !ok {
		t.Fatalf("nested decoded type %T, want map[string]any", top["outer"])
	}
}

func TestRawMessageDeferredDecode(t *testing.T) {
	type envelope struct {
		Action string     `cbor:"action"`
		Rest   RawMessage `cbor:"rest"`
	}
	type createBody struct {
		Queue string `cbor:"queue"`
	}

	inner, err := Marshal(createBody{Queue: "office-hours"})
	if err != nil {
		t.Fatalf("Marshal inner: %v", err)
	}
	data, err := Marshal(envelope{Action: "create", Rest: inner})
	if err != nil {
		t.Fatalf("Marshal envelope: %v", err)
	}

	var env envelope
	if err := Unmarshal(data, &env); err != nil {
		t.Fatalf("Unmarshal envelope: %v", err)
	}
	var body createBody
	if err := Unmarshal(env.Rest, &body); err != nil {
		t.Fatalf("Unmarshal deferred body: %v", err)
	}
	if body.Queue != "office-hours" {
		t.Fatalf("Queue = %q, want office-hours", body.Queue)
	}
}
