//go:build linux

package tracetree

import (
	"time"

	"github.com/mohae/deepcopy"
)

// Tree is the frozen result of tracing a command to completion. It is
// safe for concurrent read-only use once Spawn returns: the engine that
// built it has exited and no further mutation occurs.
type Tree struct {
	arena       *arena
	index       *index
	wallStarted time.Time
}

// Spawn runs argv under ptrace, tracking every process it transitively
// spawns, and blocks until all of them have exited. onInterrupted, if
// non-nil, is called each time the tracer's own wait is interrupted by a
// signal delivered to it (as opposed to a tracee) — the hook an operator
// signal handler can use to request a live status dump. It receives a
// snapshot func returning a *Tree view of the trace as it stands at that
// instant; that Tree's Get/Traverse/etc. are safe to call immediately,
// but it must not be retained past onInterrupted returning, since the
// underlying arena keeps mutating.
func Spawn(argv []string, onInterrupted func(snapshot func() *Tree)) (*Tree, error) {
	a, idx, wallStarted, err := run(argv, onInterrupted)
	if err != nil {
		return nil, err
	}
	return &Tree{arena: a, index: idx, wallStarted: wallStarted}, nil
}

// Get looks up a process by pid in O(1). The returned ProcessInfo is a
// deep copy: mutating it cannot affect the tree.
func (t *Tree) Get(pid int) (ProcessInfo, bool) {
	n, ok := t.index.get(pid)
	if !ok {
		return ProcessInfo{}, false
	}
	return deepcopy.Copy(n.info).(ProcessInfo), true
}

// Root returns the pid of the originally spawned process.
func (t *Tree) Root() int {
	return t.arena.root.info.PID
}

// WallStarted returns the wall-clock time captured just before the root
// process was spawned. The serializers do not use it: Started and Ended
// already carry wall-clock readings and are formatted directly.
func (t *Tree) WallStarted() time.Time {
	return t.wallStarted
}

// Traverse calls visit once per enter/leave edge of a depth-first walk
// rooted at the tree's root, in attachment order among siblings. visit
// returning false stops the walk early.
func (t *Tree) Traverse(visit func(Edge, ProcessInfo) bool) {
	traverse(t.arena.root, func(edge Edge, n *node) bool {
		return visit(edge, n.info)
	})
}
