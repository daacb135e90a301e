package main

import (
	"fmt"
	"strings"
	"testing"
)

func TestRunList(t *testing.T) {
	setupGlobals(t, "testdata/catalog")
	listFlags.all = false
	listFlags.rules = ""

	cmd, stdout, _ := testCommand(t, &listFlags.seed, ptr(uint64(5)))
	if err := runList(cmd, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want only the visible node:\n%s", len(lines), stdout.String())
	}
	prefix := fmt.Sprintf("%-16s 1girl, ", "Character")
	if !strings.HasPrefix(lines[0], prefix) {
		t.Errorf("line = %q, want prefix %q", lines[0], prefix)
	}
}

func TestRunList_All(t *testing.T) {
	setupGlobals(t, "testdata/catalog")
	listFlags.all = true
	listFlags.rules = ""
	t.Cleanup(func() { listFlags.all = false })

	cmd, stdout, _ := testCommand(t, &listFlags.seed, ptr(uint64(5)))
	if err := runList(cmd, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), stdout.String())
	}
	if !strings.HasPrefix(lines[1], fmt.Sprintf("%-16s ", "Scene")) {
		t.Errorf("line = %q, want the hidden scene node", lines[1])
	}
	if !strings.Contains(lines[1], " sky, ") {
		t.Errorf("line = %q, want a weather tag", lines[1])
	}
}

func TestRunList_CSV(t *testing.T) {
	setupGlobals(t, "testdata/catalog")
	listFlags.all = false
	outFormat = "csv"

	cmd, stdout, _ := testCommand(t, &listFlags.seed, ptr(uint64(5)))
	if err := runList(cmd, nil); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	if !strings.HasPrefix(stdout.String(), "node,name,prompt\ncharacter,Character,\"1girl, ") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestRunNodes(t *testing.T) {
	setupGlobals(t, "testdata/catalog")
	listFlags.all = true
	t.Cleanup(func() { listFlags.all = false })

	cmd, stdout, _ := testCommand(t, nil, nil)
	if err := runNodes(cmd, nil); err != nil {
		t.Fatalf("runNodes() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"ID", "character", "Character", "subject look hair outfit extra", "eyes accent", "scene", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
