package tracetree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// readCmdline reads /proc/<pid>/cmdline: a NUL-separated argv with a
// spurious trailing NUL after the final argument. The trailing empty
// element that produces is discarded, and each element is decoded as
// UTF-8 with lossy replacement of invalid sequences.
func readCmdline(pid int) ([]string, error) {
	path := fmt.Sprintf("/proc/%d/cmdline", pid)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parts := strings.Split(string(raw), "\x00")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	cmdline := make([]string, len(parts))
	for i, p := range parts {
		cmdline[i] = strings.ToValidUTF8(p, "�")
	}
	return cmdline, nil
}

// readCwd resolves the /proc/<pid>/cwd symlink. Failure (permission, or a
// race with the tracee's own exit) is tolerated: it yields ("", false)
// rather than an error.
func readCwd(pid int) (string, bool) {
	path := filepath.Join("/proc", fmt.Sprint(pid), "cwd")
	abs, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", false
	}
	return abs, true
}
