// Copyright 2026 The HelpMe Authors
// SPDX-License-Identifier: Apache-2.0

package taskgraph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ubco-db/helpme-sub003/lib/schema"
)

func task(display, precondition string, blocking bool) schema.TaskConfig {
	return schema.TaskConfig{
		DisplayName:  display,
		ColorHex:     "#336699",
		Blocking:     blocking,
		Precondition: precondition,
	}
}

// chainTasks is the canonical three-task chain t1 <- t2 <- t3, with t2
// optionally blocking.
func chainTasks(t2Blocking bool) map[string]schema.TaskConfig {
	return map[string]schema.TaskConfig{
		"t1": task("Task 1", "", false),
		"t2": task("Task 2", "t1", t2Blocking),
		"t3": task("Task 3", "t2", false),
	}
}

func TestBuildChain(t *testing.T) {
	forest, err := Build(chainTasks(false), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(forest.Nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(forest.Nodes))
	}
	for i, want := range []string{"t1", "t2", "t3"} {
		if forest.Nodes[i].ID != want {
			t.Errorf("node %d = %s, want %s", i, forest.Nodes[i].ID, want)
		}
	}
	if forest.Nodes[0].Parent != NoParent {
		t.Errorf("t1 parent = %d, want NoParent", forest.Nodes[0].Parent)
	}
	if forest.Nodes[1].Parent != 0 || forest.Nodes[2].Parent != 1 {
		t.Errorf("links = %d, %d; want 0, 1", forest.Nodes[1].Parent, forest.Nodes[2].Parent)
	}
}

func TestBuildClearsDoneParentLink(t *testing.T) {
	forest, err := Build(chainTasks(false), map[string]bool{"t1": true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	i, _ := forest.Lookup("t2")
	if forest.Nodes[i].Parent != NoParent {
		t.Errorf("t2 still linked to its done parent")
	}
	if forest.Nodes[i].PreconditionID != "t1" {
		t.Errorf("authored precondition lost: %q", forest.Nodes[i].PreconditionID)
	}

	// t3's link to t2 survives: t2 is not done.
	j, _ := forest.Lookup("t3")
	if forest.Nodes[j].Parent != i {
		t.Errorf("t3 parent = %d, want %d", forest.Nodes[j].Parent, i)
	}
}

func TestBuildDeterministicAndIdempotent(t *testing.T) {
	tasks := map[string]schema.TaskConfig{
		"setup":  task("Setup", "", false),
		"wiring": task("Wiring", "setup", true),
		"logic":  task("Logic", "wiring", false),
		"extra":  task("Extra credit", "", false),
	}
	progress := map[string]bool{"setup": true}

	first, err := Build(tasks, progress)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Build(tasks, progress)
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if !reflect.DeepEqual(first.Nodes, again.Nodes) {
			t.Fatalf("build %d differs:\n%+v\nvs\n%+v", i, first.Nodes, again.Nodes)
		}
	}
}

func TestBuildCycle(t *testing.T) {
	tasks := map[string]schema.TaskConfig{
		"a": task("A", "c", false),
		"b": task("B", "a", false),
		"c": task("C", "b", false),
	}

	_, err := Build(tasks, nil)
	var cyclic *CyclicTaskError
	if !errors.As(err, &cyclic) {
		t.Fatalf("Build error = %v, want CyclicTaskError", err)
	}
}

func TestBuildSelfCycle(t *testing.T) {
	tasks := map[string]schema.TaskConfig{
		"a": task("A", "a", false),
	}
	_, err := Build(tasks, nil)
	var cyclic *CyclicTaskError
	if !errors.As(err, &cyclic) {
		t.Fatalf("Build error = %v, want CyclicTaskError", err)
	}
}

func TestBuildDanglingPrecondition(t *testing.T) {
	tasks := map[string]schema.TaskConfig{
		"a": task("A", "ghost", false),
	}

	_, err := Build(tasks, nil)
	var dangling *DanglingPreconditionError
	if !errors.As(err, &dangling) {
		t.Fatalf("Build error = %v, want DanglingPreconditionError", err)
	}
	if dangling.TaskID != "a" || dangling.Precondition != "ghost" {
		t.Fatalf("error names %q -> %q, want a -> ghost", dangling.TaskID, dangling.Precondition)
	}
}

func TestBuildCycleBehindDoneParent(t *testing.T) {
	// Progress never breaks cycle detection: a done task on a cycle
	// is still a configuration error.
	tasks := map[string]schema.TaskConfig{
		"a": task("A", "b", false),
		"b": task("B", "a", false),
	}
	_, err := Build(tasks, map[string]bool{"a": true})
	var cyclic *CyclicTaskError
	if !errors.As(err, &cyclic) {
		t.Fatalf("Build error = %v, want CyclicTaskError", err)
	}
}

func TestChain(t *testing.T) {
	forest, err := Build(chainTasks(false), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	chain, ok := forest.Chain("t3")
	if !ok {
		t.Fatal("Chain(t3) not found")
	}
	var ids []string
	for _, i := range chain {
		ids = append(ids, forest.Nodes[i].ID)
	}
	if !reflect.DeepEqual(ids, []string{"t1", "t2", "t3"}) {
		t.Fatalf("chain = %v, want [t1 t2 t3]", ids)
	}

	if _, ok := forest.Chain("ghost"); ok {
		t.Fatal("Chain(ghost) should not resolve")
	}
}
