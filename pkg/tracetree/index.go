package tracetree

import "time"

// index is a bidirectional mapping between pid and the node allocated for
// it. It never removes entries; a node's handle stays valid for the life
// of the arena it belongs to.
type index struct {
	byPID map[int]*node
}

func newIndex() *index {
	return &index{byPID: make(map[int]*node)}
}

// getOrInsert returns the existing node for pid, or allocates a fresh one
// with defaults (current time as Started, empty cmdline/cwd, no Ended).
// Idempotent on repeat calls for the same pid.
func (x *index) getOrInsert(pid int) *node {
	if n, ok := x.byPID[pid]; ok {
		return n
	}
	n := &node{info: ProcessInfo{PID: pid, Started: time.Now()}}
	x.byPID[pid] = n
	return n
}

// get returns the node for pid without allocating one.
func (x *index) get(pid int) (*node, bool) {
	n, ok := x.byPID[pid]
	return n, ok
}
