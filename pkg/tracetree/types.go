// Package tracetree launches a command under ptrace and reconstructs the
// tree of every process it transitively spawns.
package tracetree

import "time"

// ProcessInfo describes one process observed during a trace.
type ProcessInfo struct {
	// PID is the kernel process identifier.
	PID int
	// Started is the monotonic time the node was first created.
	Started time.Time
	// Ended is the monotonic time the process was observed to exit or
	// be killed by a signal. Zero until then.
	Ended time.Time
	// Cmdline is the process's argv as of its last exec. Before that it
	// is the caller-supplied argv for the root, the parent's executable
	// name (its cmdline[0]) for a forked child, and empty for a node
	// whose fork event has not been seen.
	Cmdline []string
	// Cwd is the working directory resolved at node creation, or "" if
	// resolution failed.
	Cwd string
}

// HasEnded reports whether the process has a recorded end time.
func (p ProcessInfo) HasEnded() bool {
	return !p.Ended.IsZero()
}

// node is the arena's internal record: a ProcessInfo plus tree linkage.
type node struct {
	info     ProcessInfo
	parent   *node
	children []*node
}
