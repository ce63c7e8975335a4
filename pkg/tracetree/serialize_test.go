//go:build linux

package tracetree

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func buildTestTree() *Tree {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	root := &node{info: ProcessInfo{
		PID:     1,
		Started: start,
		Ended:   start.Add(2 * time.Second),
		Cmdline: []string{"/bin/sh", "-c", "true"},
		Cwd:     "/tmp",
	}}
	child := &node{info: ProcessInfo{
		PID:     2,
		Started: start.Add(time.Second),
		Cmdline: []string{"/usr/bin/true"},
	}}
	attach(root, child)

	return &Tree{
		arena:       &arena{root: root},
		index:       newIndex(),
		wallStarted: start,
	}
}

func TestWriteJSONShape(t *testing.T) {
	tree := buildTestTree()

	var buf bytes.Buffer
	if err := tree.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded jsonNode
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding written JSON: %v", err)
	}

	if decoded.PID != 1 {
		t.Fatalf("root pid = %d, want 1", decoded.PID)
	}
	if decoded.Ended == nil {
		t.Fatalf("root ended = nil, want a timestamp (root has exited)")
	}
	if len(decoded.Children) != 1 {
		t.Fatalf("len(children) = %d, want 1", len(decoded.Children))
	}
	if decoded.Children[0].Ended != nil {
		t.Fatalf("child ended = %v, want nil (child never exited)", *decoded.Children[0].Ended)
	}
	if decoded.Children[0].Cwd != nil {
		t.Fatalf("child cwd = %v, want nil (never resolved)", *decoded.Children[0].Cwd)
	}
	if decoded.Cwd == nil || *decoded.Cwd != "/tmp" {
		t.Fatalf("root cwd = %v, want \"/tmp\"", decoded.Cwd)
	}
}

func TestWriteTextFormat(t *testing.T) {
	tree := buildTestTree()

	var buf bytes.Buffer
	if err := tree.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if strings.HasPrefix(lines[0], "\t") {
		t.Fatalf("root line has a tab prefix: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "\t") {
		t.Fatalf("child line missing tab prefix: %q", lines[1])
	}
	if !strings.Contains(lines[0], "sh") {
		t.Fatalf("root line missing basename %q: %q", "sh", lines[0])
	}
	if !strings.Contains(lines[0], "2.000s") {
		t.Fatalf("root line missing elapsed time: %q", lines[0])
	}
	if !strings.Contains(lines[1], "[?]") {
		t.Fatalf("child line should show unknown elapsed: %q", lines[1])
	}
}

func TestTextLineUnknownFallback(t *testing.T) {
	info := ProcessInfo{PID: 5}
	line := textLine(0, info)
	if !strings.Contains(line, "<unknown>") {
		t.Fatalf("textLine with empty cmdline = %q, want <unknown> fallback", line)
	}
}
