//go:build linux

package tracetree

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

// engine drives a single root tracee and all of its descendants to
// completion. It is not safe for concurrent use: every method must run
// on the OS thread that attached to the root, and there is exactly one
// such thread for the life of a trace.
type engine struct {
	ctl   controller
	index *index
	arena *arena
}

// run spawns argv under ptrace, seeds the root node, and drives the
// waitpid(-1) loop until every descendant of root has an end time. It
// returns the frozen arena.
//
// onInterrupted, if non-nil, is called synchronously on the engine's own
// goroutine each time its wait is interrupted by a signal delivered to
// the tracer. It receives a snapshot func that builds a *Tree view of
// the arena as it stands at that instant — safe to call because nothing
// else mutates the arena while onInterrupted runs.
func run(argv []string, onInterrupted func(snapshot func() *Tree)) (*arena, *index, time.Time, error) {
	wallStarted := time.Now()

	pid, err := spawnAttached(argv)
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	defer runtime.UnlockOSThread()

	e := &engine{index: newIndex(), arena: &arena{}}

	if err := e.ctl.setOptions(pid); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("setting ptrace options: %w", err)
	}

	root := e.index.getOrInsert(pid)
	root.info.Cmdline = argv
	if cwd, ok := readCwd(pid); ok {
		root.info.Cwd = cwd
	}
	e.arena.root = root

	if err := e.ctl.cont(pid, 0); err != nil {
		return nil, nil, time.Time{}, fmt.Errorf("continuing root process: %w", err)
	}

	for hasLiveDescendant(e.arena.root) {
		if err := e.step(onInterrupted, wallStarted); err != nil {
			return nil, nil, time.Time{}, err
		}
	}

	return e.arena, e.index, wallStarted, nil
}

// step waits for a single event from any tracee and dispatches it. An
// interrupted wait (a signal delivered to the tracer, not a tracee) is
// swallowed and retried; onInterrupted, if non-nil, is invoked first so a
// caller can hook a live-status request onto it.
func (e *engine) step(onInterrupted func(snapshot func() *Tree), wallStarted time.Time) error {
	var ws unix.WaitStatus
	pid, err := unix.Wait4(-1, &ws, 0, nil)
	if err != nil {
		if err == unix.EINTR {
			if onInterrupted != nil {
				onInterrupted(func() *Tree {
					return &Tree{arena: e.arena, index: e.index, wallStarted: wallStarted}
				})
			}
			return nil
		}
		return fmt.Errorf("waiting for tracee: %w", err)
	}

	switch {
	case ws.Exited():
		n := e.index.getOrInsert(pid)
		n.info.Ended = time.Now()
		return nil

	case ws.Signaled():
		n := e.index.getOrInsert(pid)
		n.info.Ended = time.Now()
		return nil

	case ws.Stopped():
		return e.handleStop(pid, ws)

	default:
		return fmt.Errorf("protocol violation: unexpected wait status %v for pid %d", ws, pid)
	}
}

func (e *engine) handleStop(pid int, ws unix.WaitStatus) error {
	sig := ws.StopSignal()

	if sig == unix.SIGTRAP && isPtraceEventStop(ws) {
		return e.handlePtraceEvent(pid, ws)
	}

	// Signal-delivery stop: any signal en route to the tracee, including
	// the SIGSTOP that follows a newly created tracee's attach.
	//
	// Child-before-parent race: the kernel may deliver a brand-new
	// tracee's initial SIGSTOP before its parent's fork/vfork/clone
	// event stop. Materializing pid here unconditionally, rather than
	// requiring a prior fork event, tolerates that ordering: the node
	// gets an approximate Started time at first sighting instead of at
	// fork time, and is attached to its parent later when that event
	// does arrive.
	e.index.getOrInsert(pid)

	continueSig := sig
	if sig == unix.SIGSTOP {
		continueSig = 0
	}
	if err := e.ctl.cont(pid, continueSig); err != nil {
		return fmt.Errorf("continuing pid %d: %w", pid, err)
	}
	return nil
}

// isPtraceEventStop reports whether ws is a PTRACE_EVENT_* stop (as
// opposed to an ordinary SIGTRAP signal-delivery stop). The kernel
// encodes the event in the upper bits of the wait status, which
// unix.WaitStatus.TrapCause decodes.
func isPtraceEventStop(ws unix.WaitStatus) bool {
	return ws.TrapCause() != 0
}

func (e *engine) handlePtraceEvent(pid int, ws unix.WaitStatus) error {
	switch ws.TrapCause() {
	case unix.PTRACE_EVENT_FORK, unix.PTRACE_EVENT_VFORK, unix.PTRACE_EVENT_CLONE:
		return e.handleNewChild(pid)
	case unix.PTRACE_EVENT_EXEC:
		return e.handleExec(pid)
	default:
		return fmt.Errorf("protocol violation: unexpected ptrace event %d for pid %d", ws.TrapCause(), pid)
	}
}

// handleNewChild processes a fork/vfork/clone stop: pid, the parent, is
// stopped just after creating a new tracee. The parent node must already
// exist — its own attached-stop always precedes this event — so a miss
// here is a fatal protocol error, not a race to tolerate.
func (e *engine) handleNewChild(pid int) error {
	newPID, err := e.ctl.eventMessage(pid)
	if err != nil {
		return fmt.Errorf("getting event message for pid %d: %w", pid, err)
	}

	parent, ok := e.index.get(pid)
	if !ok {
		return fmt.Errorf("protocol violation: fork/vfork/clone event for unknown parent pid %d", pid)
	}

	child := e.index.getOrInsert(newPID)
	// The child inherits the parent's argv until its own exec; seeding
	// just the executable name (not the full argv) keeps pre-exec text
	// output compact while still giving the child a meaningful name if
	// it exits without ever execing.
	if len(parent.info.Cmdline) > 0 {
		child.info.Cmdline = append([]string(nil), parent.info.Cmdline[:1]...)
	}
	if cwd, ok := readCwd(newPID); ok {
		child.info.Cwd = cwd
	}
	if child.parent == nil {
		attach(parent, child)
	}

	if err := e.ctl.cont(pid, 0); err != nil {
		return fmt.Errorf("continuing parent pid %d: %w", pid, err)
	}
	return nil
}

// handleExec processes a successful exec stop: pid replaced its argv.
// The node must already exist for the same reason as handleNewChild.
func (e *engine) handleExec(pid int) error {
	n, ok := e.index.get(pid)
	if !ok {
		return fmt.Errorf("protocol violation: exec event for unknown pid %d", pid)
	}

	cmdline, err := readCmdline(pid)
	if err != nil {
		return fmt.Errorf("reading cmdline after exec of pid %d: %w", pid, err)
	}
	n.info.Cmdline = cmdline

	if err := e.ctl.cont(pid, 0); err != nil {
		return fmt.Errorf("continuing pid %d: %w", pid, err)
	}
	return nil
}
