//go:build linux

package tracetree

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// traceOptions is the set of ptrace(2) event notifications the engine
// requires: a stop at every fork, vfork, clone, and successful exec.
const traceOptions = unix.PTRACE_O_TRACEFORK |
	unix.PTRACE_O_TRACEVFORK |
	unix.PTRACE_O_TRACECLONE |
	unix.PTRACE_O_TRACEEXEC

// controller is a thin wrapper over the ptrace(2) primitives the trace
// engine needs. It holds no state of its own; every call is in terms of a
// pid the kernel already knows is a stopped tracee of this process.
type controller struct{}

// setOptions requests fork/vfork/clone/exec event notification for pid.
// Invoked once, on the root, immediately after it reaches its initial
// attached-stopped state.
func (controller) setOptions(pid int) error {
	if err := unix.PtraceSetOptions(pid, traceOptions); err != nil {
		return fmt.Errorf("ptrace(PTRACE_SETOPTIONS, %d): %w", pid, err)
	}
	return nil
}

// eventMessage retrieves the auxiliary value the kernel attached to the
// pending event stop on pid. For fork/vfork/clone this is the new
// child's pid.
func (controller) eventMessage(pid int) (int, error) {
	msg, err := unix.PtraceGetEventMsg(pid)
	if err != nil {
		return 0, fmt.Errorf("ptrace(PTRACE_GETEVENTMSG, %d): %w", pid, err)
	}
	return int(msg), nil
}

// cont resumes pid. If sig is non-zero the kernel delivers it to the
// tracee upon resume; zero means no signal is injected.
func (controller) cont(pid int, sig unix.Signal) error {
	if err := unix.PtraceCont(pid, int(sig)); err != nil {
		return fmt.Errorf("ptrace(PTRACE_CONT, %d, %v): %w", pid, sig, err)
	}
	return nil
}
