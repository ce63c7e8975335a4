//go:build linux

package tracetree

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"
)

// spawnAttached forks and execs argv[0] with the remaining elements of
// argv as its arguments, leaving the new process stopped before its
// first user instruction with this goroutine's OS thread already
// attached as its tracer. The caller must keep its OS thread locked for
// as long as it intends to issue further ptrace calls against the
// returned pid: ptrace requires the tracer and the calling thread to be
// the same OS thread for every subsequent call.
func spawnAttached(argv []string) (pid int, err error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("spawning process: empty command")
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, fmt.Errorf("spawning process: %w", err)
	}

	runtime.LockOSThread()

	cmd := exec.Command(path, argv[1:]...)
	cmd.Args = argv
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Ptrace: true}

	if err := cmd.Start(); err != nil {
		runtime.UnlockOSThread()
		return 0, fmt.Errorf("spawning process: %w", err)
	}

	// With SysProcAttr.Ptrace set, the child calls PTRACE_TRACEME before
	// its exec, and the kernel stops it with SIGTRAP once the exec of the
	// real command succeeds; cmd.Start returns without consuming that
	// stop. Reap it here so the engine's own waitpid(-1) loop starts from
	// a clean slate.
	var ws unix.WaitStatus
	if _, err := unix.Wait4(cmd.Process.Pid, &ws, 0, nil); err != nil {
		runtime.UnlockOSThread()
		return 0, fmt.Errorf("waiting for initial stop of pid %d: %w", cmd.Process.Pid, err)
	}

	return cmd.Process.Pid, nil
}
