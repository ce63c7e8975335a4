//go:build linux

package tracetree

import (
	"testing"
	"time"
)

func TestTreeGetReturnsDeepCopy(t *testing.T) {
	tree := buildTestTree()
	tree.index.byPID[1] = tree.arena.root
	tree.index.byPID[2] = tree.arena.root.children[0]

	info, ok := tree.Get(1)
	if !ok {
		t.Fatalf("Get(1) = (_, false), want true")
	}
	info.Cmdline[0] = "mutated"

	original, _ := tree.Get(1)
	if original.Cmdline[0] == "mutated" {
		t.Fatalf("mutating a Get result mutated the tree's own ProcessInfo")
	}
}

func TestTreeGetMissing(t *testing.T) {
	tree := buildTestTree()
	if _, ok := tree.Get(999); ok {
		t.Fatalf("Get(999) = (_, true), want false")
	}
}

func TestTreeRootAndWallStarted(t *testing.T) {
	tree := buildTestTree()
	if tree.Root() != 1 {
		t.Fatalf("Root() = %d, want 1", tree.Root())
	}
	if !tree.WallStarted().Equal(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("WallStarted() = %v, want 2026-01-01T12:00:00Z", tree.WallStarted())
	}
}

func TestTreeTraverseVisitsAllNodes(t *testing.T) {
	tree := buildTestTree()

	var pids []int
	tree.Traverse(func(edge Edge, info ProcessInfo) bool {
		if edge == Enter {
			pids = append(pids, info.PID)
		}
		return true
	})

	if len(pids) != 2 || pids[0] != 1 || pids[1] != 2 {
		t.Fatalf("Traverse visited %v, want [1 2]", pids)
	}
}
